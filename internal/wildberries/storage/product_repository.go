package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"gomonitor_api/internal/wildberries/business/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `shop_id, nm_id, vendor_code, brand, subj_name, subj_root_name,
		imt_name, name, description, price_u, sale_price_u, client_sale, basic_sale, supplier, updated_at`

func (r *ProductRepository) FetchAll() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM wildberries.products ORDER BY nm_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) GetByShopID(shopID int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM wildberries.products WHERE shop_id = $1 ORDER BY nm_id`
	rows, err := r.db.Query(query, shopID)
	if err != nil {
		return nil, fmt.Errorf("fetching products for shop %d: %w", shopID, err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// SaveMany — батчевый upsert по бизнес-ключу (shop_id, nm_id).
func (r *ProductRepository) SaveMany(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	const fields = 15
	valueStrings := make([]string, 0, len(products))
	args := make([]interface{}, 0, len(products)*fields)
	for i, p := range products {
		placeholders := make([]string, fields)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*fields+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			p.ShopID, p.NmID, p.VendorCode, p.Brand, p.SubjName, p.SubjRootName,
			p.ImtName, p.Name, p.Description, p.PriceU, p.SalePriceU,
			p.ClientSale, p.BasicSale, p.Supplier, p.UpdatedAt)
	}

	query := `
		INSERT INTO wildberries.products (` + productColumns + `)
		VALUES ` + strings.Join(valueStrings, ", ") + `
		ON CONFLICT (shop_id, nm_id) DO UPDATE
		SET vendor_code = EXCLUDED.vendor_code,
			brand = EXCLUDED.brand,
			subj_name = EXCLUDED.subj_name,
			subj_root_name = EXCLUDED.subj_root_name,
			imt_name = EXCLUDED.imt_name,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price_u = EXCLUDED.price_u,
			sale_price_u = EXCLUDED.sale_price_u,
			client_sale = EXCLUDED.client_sale,
			basic_sale = EXCLUDED.basic_sale,
			supplier = EXCLUDED.supplier,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("saving products: %w", err)
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		var updatedAt sql.NullTime
		err := rows.Scan(&p.ShopID, &p.NmID, &p.VendorCode, &p.Brand, &p.SubjName, &p.SubjRootName,
			&p.ImtName, &p.Name, &p.Description, &p.PriceU, &p.SalePriceU,
			&p.ClientSale, &p.BasicSale, &p.Supplier, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		if updatedAt.Valid {
			p.UpdatedAt = updatedAt.Time
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading product rows: %w", err)
	}
	return products, nil
}
