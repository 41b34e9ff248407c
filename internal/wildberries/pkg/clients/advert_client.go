package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gomonitor_api/internal/wildberries/business/models"
	"gomonitor_api/pkg/logger"
)

const sendChangesEndpoint = "/api/v1/external-api/save-stats-to-detected-changes/"

// AdvertClient отправляет записи истории во внешний сервис статистики.
type AdvertClient struct {
	ApiURL string
	log    logger.Logger
	client *http.Client
}

func NewAdvertClient(apiURL string, writer io.Writer) *AdvertClient {
	return &AdvertClient{
		ApiURL: apiURL,
		log:    logger.NewLogger(writer, "[AdvertClient]"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type detectedChange struct {
	NmID   int    `json:"nm_id"`
	Action string `json:"action"`
	ShopID int    `json:"shop_id"`
	Time   string `json:"time"`
}

type detectedChangesRequest struct {
	Data []detectedChange `json:"data"`
}

// SendDetectedChanges доставляет батч изменений. Вызывающая сторона
// трактует ошибку как некритичную.
func (c *AdvertClient) SendDetectedChanges(ctx context.Context, changes []models.ProductHistory) error {
	payload := detectedChangesRequest{Data: make([]detectedChange, 0, len(changes))}
	for _, change := range changes {
		payload.Data = append(payload.Data, detectedChange{
			NmID:   change.NmID,
			Action: change.Action,
			ShopID: change.ShopID,
			Time:   change.CreatedAt.Format(time.RFC3339),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ApiURL+sendChangesEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-OK status: %d", resp.StatusCode)
	}

	c.log.Log("delivered %d detected changes", len(payload.Data))
	return nil
}
