package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AdvertConfig описывает внешний сервис, принимающий обнаруженные изменения.
type AdvertConfig struct {
	Host string `yaml:"host"`
}

type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Advert   AdvertConfig   `yaml:"advert"`
	Postgres PostgresConfig `yaml:"postgres"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Load читает yaml-конфиг, а недостающие поля добирает из окружения.
func Load(filename string) *AppConfig {
	config, err := LoadConfig(filename)
	if err != nil {
		log.Printf("Failed to load config '%s', falling back to env: %v", filename, err)
		config = &AppConfig{}
	}
	if config.Server.Addr == "" {
		config.Server.Addr = getEnv("SERVER_ADDR", ":8000")
	}
	if config.Advert.Host == "" {
		config.Advert.Host = getEnv("ADVERTISEMENT_PROJECT_HOST", "http://localhost:8082")
	}
	if config.Postgres.Host == "" {
		config.Postgres = GetPostgresConfig()
	}
	return config
}
