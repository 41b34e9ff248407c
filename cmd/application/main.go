package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"gomonitor_api/config"
	wbapp "gomonitor_api/internal/wildberries/app"
	"gomonitor_api/pkg/dbconnect/postgres"
)

func main() {
	log.Printf("\nStarted app\n")

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg := config.Load(configPath)

	connector := postgres.NewPgConnector(cfg.Postgres)
	server := wbapp.NewMonitoringServer(connector, cfg, os.Stdout)
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
