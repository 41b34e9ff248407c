package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"gomonitor_api/internal/wildberries/business/models"
)

// HistoryRepository пишет журнал изменений. Записи только добавляются,
// путей обновления или удаления у репозитория нет.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) SaveMany(histories []models.ProductHistory) error {
	if len(histories) == 0 {
		return nil
	}

	const fields = 5
	valueStrings := make([]string, 0, len(histories))
	args := make([]interface{}, 0, len(histories)*fields)
	for i, history := range histories {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*fields+1, i*fields+2, i*fields+3, i*fields+4, i*fields+5))
		args = append(args, history.NmID, history.Action, history.CreatedAt, history.ShopID, history.Supplier)
	}

	query := `
		INSERT INTO wildberries.histories (nm_id, action, created_at, shop_id, supplier)
		VALUES ` + strings.Join(valueStrings, ", ") + `;
	`
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
