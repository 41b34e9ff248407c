package wbapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/services"
)

func newTestClient(serverURL string) *OrdersClient {
	client := NewOrdersClient(io.Discard)
	client.MarketplaceURL = serverURL
	client.StatisticsURL = serverURL
	return client
}

func TestGetShopOrders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v3/orders/new", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(responses.NewOrdersResponse{
			Orders: []responses.NewOrder{{ID: 772144730, NmID: 10, ConvertedPrice: 150000}},
		})
	}))
	defer server.Close()

	orders, err := newTestClient(server.URL).GetShopOrders(
		context.Background(), services.NewBearerAuth("std-token"))

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(772144730), orders[0].ID)
	assert.Equal(t, "Bearer std-token", gotAuth)
}

func TestGetShopOrdersNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetShopOrders(
		context.Background(), services.NewBearerAuth("bad-token"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestGetShopOrdersFBOSendsDateFrom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/supplier/orders", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("dateFrom"))
		json.NewEncoder(w).Encode([]responses.SupplierOrder{
			{Srid: "ab12", NmID: 20, PriceWithDisc: 1500},
		})
	}))
	defer server.Close()

	orders, err := newTestClient(server.URL).GetShopOrdersFBO(
		context.Background(), services.NewBearerAuth("stat-token"))

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ab12", orders[0].Srid)
}

func TestGetShopSales(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/supplier/sales", r.URL.Path)
		json.NewEncoder(w).Encode([]responses.SupplierSale{
			{SaleID: "S9993", NmID: 30, PriceWithDisc: 300, IsCancel: true},
		})
	}))
	defer server.Close()

	sales, err := newTestClient(server.URL).GetShopSales(
		context.Background(), services.NewBearerAuth("stat-token"))

	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].IsCancel)
}

func TestGetOrderStatusesChunksRequests(t *testing.T) {
	var batches [][]int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v3/orders/status", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var request responses.OrderStatusesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		batches = append(batches, request.Orders)

		response := responses.OrderStatusesResponse{}
		for _, id := range request.Orders {
			response.Orders = append(response.Orders, responses.OrderStatus{
				ID:             id,
				SupplierStatus: "confirm",
			})
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	orderIDs := make([]int64, 2500)
	for i := range orderIDs {
		orderIDs[i] = int64(i + 1)
	}

	statuses, err := newTestClient(server.URL).GetOrderStatuses(
		context.Background(), services.NewBearerAuth("std-token"), orderIDs)

	require.NoError(t, err)
	// 2500 id уходят тремя батчами: 1000, 1000 и 500
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], StatusBatchLimit)
	assert.Len(t, batches[1], StatusBatchLimit)
	assert.Len(t, batches[2], 500)

	require.Len(t, statuses, 2500)
	assert.Equal(t, int64(1), statuses[0].ID)
	assert.Equal(t, int64(2500), statuses[2499].ID)
	assert.Equal(t, "confirm", statuses[0].SupplierStatus)
}

func TestGetOrderStatusesEmptyInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty input")
	}))
	defer server.Close()

	statuses, err := newTestClient(server.URL).GetOrderStatuses(
		context.Background(), services.NewBearerAuth("std-token"), nil)

	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestGetOrderStatusesBatchFailureAborts(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var request responses.OrderStatusesRequest
		json.NewDecoder(r.Body).Decode(&request)
		response := responses.OrderStatusesResponse{}
		for _, id := range request.Orders {
			response.Orders = append(response.Orders, responses.OrderStatus{ID: id, SupplierStatus: "confirm"})
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	orderIDs := make([]int64, StatusBatchLimit+1)
	for i := range orderIDs {
		orderIDs[i] = int64(i + 1)
	}

	_, err := newTestClient(server.URL).GetOrderStatuses(
		context.Background(), services.NewBearerAuth("std-token"), orderIDs)

	require.Error(t, err)
	assert.Equal(t, 2, requests)
}

func TestBearerAuthHeaders(t *testing.T) {
	auth := services.NewBearerAuth("secret")
	require.NotNil(t, auth)
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)
	auth.SetApiKey(req)
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

	assert.Nil(t, services.NewBearerAuth(""))
}
