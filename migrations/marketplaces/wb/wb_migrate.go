package wb

import (
	"database/sql"
	"fmt"
	"log"

	"gomonitor_api/migrations/infrastructure"
)

type CreateWBSchema struct{}

func (m *CreateWBSchema) UpMigration(db *sql.DB) error {
	query := `
	CREATE SCHEMA IF NOT EXISTS wildberries;`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create schema wildberries: %w", err)
	}
	return nil
}

type CreateWBShopsTable struct{}

func (m *CreateWBShopsTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, "wildberries.shops"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS wildberries.shops (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		supplier VARCHAR(255) NOT NULL DEFAULT '',
		api_token_standard TEXT NOT NULL DEFAULT '',
		api_token_statistic TEXT NOT NULL DEFAULT '',
		api_token_advert TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);`
	if err := infrastructure.ExecuteAndMarkMigration(db, query, "wildberries.shops"); err != nil {
		return err
	}
	log.Println("Migration 'wildberries.shops' completed successfully.")
	return nil
}

type CreateWBProductsTable struct{}

func (m *CreateWBProductsTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, "wildberries.products"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS wildberries.products (
		id SERIAL PRIMARY KEY,
		shop_id INT NOT NULL,
		nm_id BIGINT NOT NULL,
		vendor_code VARCHAR(255) NOT NULL DEFAULT '',
		brand VARCHAR(255) NOT NULL DEFAULT '',
		subj_name VARCHAR(255) NOT NULL DEFAULT '',
		subj_root_name VARCHAR(255) NOT NULL DEFAULT '',
		imt_name VARCHAR(255) NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		price_u INT NOT NULL DEFAULT 0,
		sale_price_u INT NOT NULL DEFAULT 0,
		client_sale INT NOT NULL DEFAULT 0,
		basic_sale INT NOT NULL DEFAULT 0,
		supplier VARCHAR(255) NOT NULL DEFAULT '',
		updated_at TIMESTAMP WITH TIME ZONE,
		CONSTRAINT unique_shop_nm UNIQUE(shop_id, nm_id)
	);`
	if err := infrastructure.ExecuteAndMarkMigration(db, query, "wildberries.products"); err != nil {
		return err
	}
	log.Println("Migration 'wildberries.products' completed successfully.")
	return nil
}

type CreateWBCharacteristicsTable struct{}

func (m *CreateWBCharacteristicsTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, "wildberries.characteristics"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS wildberries.characteristics (
		id SERIAL PRIMARY KEY,
		product_nm_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		CONSTRAINT unique_nm_name UNIQUE(product_nm_id, name)
	);`
	if err := infrastructure.ExecuteAndMarkMigration(db, query, "wildberries.characteristics"); err != nil {
		return err
	}
	log.Println("Migration 'wildberries.characteristics' completed successfully.")
	return nil
}

type CreateWBOrdersTable struct{}

func (m *CreateWBOrdersTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, "wildberries.orders"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS wildberries.orders (
		id SERIAL PRIMARY KEY,
		order_uid VARCHAR(255) NOT NULL,
		nm_id BIGINT NOT NULL,
		status VARCHAR(64) NOT NULL DEFAULT 'new',
		price_for_sale INT NOT NULL DEFAULT 0,
		shop_id INT NOT NULL,
		CONSTRAINT unique_shop_order UNIQUE(shop_id, order_uid)
	);`
	if err := infrastructure.ExecuteAndMarkMigration(db, query, "wildberries.orders"); err != nil {
		return err
	}
	log.Println("Migration 'wildberries.orders' completed successfully.")
	return nil
}

type CreateWBHistoriesTable struct{}

func (m *CreateWBHistoriesTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, "wildberries.histories"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS wildberries.histories (
		id SERIAL PRIMARY KEY,
		nm_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		shop_id INT NOT NULL,
		supplier VARCHAR(255) NOT NULL DEFAULT ''
	);`
	if err := infrastructure.ExecuteAndMarkMigration(db, query, "wildberries.histories"); err != nil {
		return err
	}
	log.Println("Migration 'wildberries.histories' completed successfully.")
	return nil
}
