package wbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/services"
	"gomonitor_api/pkg/logger"
)

const (
	defaultMarketplaceURL = "https://marketplace-api.wildberries.ru"
	defaultStatisticsURL  = "https://statistics-api.wildberries.ru"

	// Выборка заказов/продаж ограничена скользящим окном: это
	// инкрементальный опрос, а не полная пересинхронизация.
	ordersWindow = 24 * time.Hour

	// Эндпоинт статусов принимает не более 1000 id за запрос.
	StatusBatchLimit = 1000

	requestTimeout = 30 * time.Second
)

// OrdersClient — клиент заказов/продаж/статусов Wildberries.
// Каждый вызов авторизуется переданным токеном, состояния между вызовами нет.
type OrdersClient struct {
	MarketplaceURL string
	StatisticsURL  string

	client *http.Client
	log    logger.Logger
}

func NewOrdersClient(writer io.Writer) *OrdersClient {
	return &OrdersClient{
		MarketplaceURL: defaultMarketplaceURL,
		StatisticsURL:  defaultStatisticsURL,
		client:         &http.Client{Timeout: requestTimeout},
		log:            logger.NewLogger(writer, "[OrdersClient]"),
	}
}

// GetShopOrders возвращает новые сборочные задания магазина.
func (c *OrdersClient) GetShopOrders(ctx context.Context, auth services.AuthEngine) ([]responses.NewOrder, error) {
	var response responses.NewOrdersResponse
	endpoint := c.MarketplaceURL + "/api/v3/orders/new"
	if err := c.getJSON(ctx, endpoint, auth, &response); err != nil {
		return nil, fmt.Errorf("fetching new orders: %w", err)
	}
	return response.Orders, nil
}

// GetShopOrdersFBO возвращает заказы, исполняемые оператором, за окно опроса.
func (c *OrdersClient) GetShopOrdersFBO(ctx context.Context, auth services.AuthEngine) ([]responses.SupplierOrder, error) {
	var orders []responses.SupplierOrder
	endpoint := c.StatisticsURL + "/api/v1/supplier/orders?" + dateFromQuery()
	if err := c.getJSON(ctx, endpoint, auth, &orders); err != nil {
		return nil, fmt.Errorf("fetching fbo orders: %w", err)
	}
	return orders, nil
}

// GetShopSales возвращает продажи и возвраты за окно опроса.
func (c *OrdersClient) GetShopSales(ctx context.Context, auth services.AuthEngine) ([]responses.SupplierSale, error) {
	var sales []responses.SupplierSale
	endpoint := c.StatisticsURL + "/api/v1/supplier/sales?" + dateFromQuery()
	if err := c.getJSON(ctx, endpoint, auth, &sales); err != nil {
		return nil, fmt.Errorf("fetching sales: %w", err)
	}
	return sales, nil
}

// GetOrderStatuses опрашивает статусы заданий батчами по StatusBatchLimit.
func (c *OrdersClient) GetOrderStatuses(ctx context.Context, auth services.AuthEngine, orderIDs []int64) ([]responses.OrderStatus, error) {
	statuses := make([]responses.OrderStatus, 0, len(orderIDs))
	endpoint := c.MarketplaceURL + "/api/v3/orders/status"

	for start := 0; start < len(orderIDs); start += StatusBatchLimit {
		end := start + StatusBatchLimit
		if end > len(orderIDs) {
			end = len(orderIDs)
		}

		body, err := json.Marshal(responses.OrderStatusesRequest{Orders: orderIDs[start:end]})
		if err != nil {
			return nil, fmt.Errorf("marshaling status request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		auth.SetApiKey(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching order statuses: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %s", resp.Status)
		}

		var response responses.OrderStatusesResponse
		err = json.NewDecoder(resp.Body).Decode(&response)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding order statuses: %w", err)
		}
		statuses = append(statuses, response.Orders...)
	}
	c.log.Log("fetched %d statuses for %d orders", len(statuses), len(orderIDs))
	return statuses, nil
}

func (c *OrdersClient) getJSON(ctx context.Context, endpoint string, auth services.AuthEngine, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	auth.SetApiKey(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func dateFromQuery() string {
	dateFrom := time.Now().Add(-ordersWindow).Format(time.RFC3339)
	return url.Values{"dateFrom": []string{dateFrom}}.Encode()
}
