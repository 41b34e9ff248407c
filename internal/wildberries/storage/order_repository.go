package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"gomonitor_api/internal/wildberries/business/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByShopID(shopID int) ([]models.Order, error) {
	query := `
		SELECT order_uid, nm_id, status, price_for_sale, shop_id
		FROM wildberries.orders WHERE shop_id = $1 ORDER BY order_uid`
	rows, err := r.db.Query(query, shopID)
	if err != nil {
		return nil, fmt.Errorf("fetching orders for shop %d: %w", shopID, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// GetOpenByShopID возвращает заказы, не дошедшие до терминального статуса.
func (r *OrderRepository) GetOpenByShopID(shopID int) ([]models.Order, error) {
	query := `
		SELECT order_uid, nm_id, status, price_for_sale, shop_id
		FROM wildberries.orders
		WHERE shop_id = $1 AND status <> ALL($2)
		ORDER BY order_uid`
	terminal := pq.Array([]string{models.OrderStatusComplete, models.OrderStatusCancel})
	rows, err := r.db.Query(query, shopID, terminal)
	if err != nil {
		return nil, fmt.Errorf("fetching open orders for shop %d: %w", shopID, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// SaveMany — upsert по (shop_id, order_uid); меняться может только статус.
func (r *OrderRepository) SaveMany(orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	const fields = 5
	valueStrings := make([]string, 0, len(orders))
	args := make([]interface{}, 0, len(orders)*fields)
	for i, order := range orders {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*fields+1, i*fields+2, i*fields+3, i*fields+4, i*fields+5))
		args = append(args, order.OrderUID, order.NmID, order.Status, order.PriceForSale, order.ShopID)
	}

	query := `
		INSERT INTO wildberries.orders (order_uid, nm_id, status, price_for_sale, shop_id)
		VALUES ` + strings.Join(valueStrings, ", ") + `
		ON CONFLICT (shop_id, order_uid) DO UPDATE
		SET status = EXCLUDED.status;
	`
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("saving orders: %w", err)
	}
	return nil
}

func scanOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(&order.OrderUID, &order.NmID, &order.Status, &order.PriceForSale, &order.ShopID)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading order rows: %w", err)
	}
	return orders, nil
}
