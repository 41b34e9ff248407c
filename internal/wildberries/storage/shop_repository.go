package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"gomonitor_api/internal/wildberries/business/models"
)

type ShopRepository struct {
	db *sql.DB
}

func NewShopRepository(db *sql.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

const shopColumns = `id, name, supplier, api_token_standard, api_token_statistic, api_token_advert, is_active`

func (r *ShopRepository) FetchActive() ([]models.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM wildberries.shops WHERE is_active ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("fetching shops: %w", err)
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		var shop models.Shop
		err := rows.Scan(&shop.ID, &shop.Name, &shop.Supplier,
			&shop.APITokenStandard, &shop.APITokenStatistic, &shop.APITokenAdvert, &shop.IsActive)
		if err != nil {
			return nil, fmt.Errorf("scanning shop: %w", err)
		}
		shops = append(shops, shop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading shop rows: %w", err)
	}
	return shops, nil
}

func (r *ShopRepository) GetByID(shopID int) (*models.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM wildberries.shops WHERE id = $1`
	var shop models.Shop
	err := r.db.QueryRow(query, shopID).Scan(&shop.ID, &shop.Name, &shop.Supplier,
		&shop.APITokenStandard, &shop.APITokenStatistic, &shop.APITokenAdvert, &shop.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching shop %d: %w", shopID, err)
	}
	return &shop, nil
}
