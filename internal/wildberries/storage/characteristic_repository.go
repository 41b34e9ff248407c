package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"gomonitor_api/internal/wildberries/business/models"
)

type CharacteristicRepository struct {
	db *sql.DB
}

func NewCharacteristicRepository(db *sql.DB) *CharacteristicRepository {
	return &CharacteristicRepository{db: db}
}

func (r *CharacteristicRepository) FetchAll() ([]models.Characteristic, error) {
	query := `SELECT product_nm_id, name, value FROM wildberries.characteristics ORDER BY product_nm_id, name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("fetching characteristics: %w", err)
	}
	defer rows.Close()

	var chars []models.Characteristic
	for rows.Next() {
		var char models.Characteristic
		if err := rows.Scan(&char.ProductNmID, &char.Name, &char.Value); err != nil {
			return nil, fmt.Errorf("scanning characteristic: %w", err)
		}
		chars = append(chars, char)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading characteristic rows: %w", err)
	}
	return chars, nil
}

// SaveMany — upsert по составному ключу (product_nm_id, name): двух
// характеристик с одним именем у товара быть не может.
func (r *CharacteristicRepository) SaveMany(chars []models.Characteristic) error {
	if len(chars) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(chars))
	args := make([]interface{}, 0, len(chars)*3)
	for i, char := range chars {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, char.ProductNmID, char.Name, char.Value)
	}

	query := `
		INSERT INTO wildberries.characteristics (product_nm_id, name, value)
		VALUES ` + strings.Join(valueStrings, ", ") + `
		ON CONFLICT (product_nm_id, name) DO UPDATE
		SET value = EXCLUDED.value;
	`
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("saving characteristics: %w", err)
	}
	return nil
}

func (r *CharacteristicRepository) DeleteInstances(chars []models.Characteristic) error {
	if len(chars) == 0 {
		return nil
	}

	conditions := make([]string, 0, len(chars))
	args := make([]interface{}, 0, len(chars)*2)
	for i, char := range chars {
		conditions = append(conditions, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		args = append(args, char.ProductNmID, char.Name)
	}

	query := `
		DELETE FROM wildberries.characteristics
		WHERE (product_nm_id, name) IN (` + strings.Join(conditions, ", ") + `);
	`
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("deleting characteristics: %w", err)
	}
	return nil
}
