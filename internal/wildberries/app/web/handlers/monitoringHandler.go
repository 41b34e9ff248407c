package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gomonitor_api/internal/wildberries/business/services/monitor"
	"gomonitor_api/pkg/logger"
)

// MonitoringHandler — триггеры прогонов мониторинга. Каждый вызов
// идемпотентен: выполняет ровно один полный проход и возвращается.
type MonitoringHandler struct {
	service *monitor.Service
	log     logger.Logger
}

func NewMonitoringHandler(service *monitor.Service, writer io.Writer) *MonitoringHandler {
	return &MonitoringHandler{
		service: service,
		log:     logger.NewLogger(writer, "[MonitoringHandler]"),
	}
}

func (h *MonitoringHandler) LaunchProductMonitoring(w http.ResponseWriter, r *http.Request) {
	h.launch(w, r, "products", h.service.ProductMonitoring)
}

func (h *MonitoringHandler) LaunchOrderMonitoring(w http.ResponseWriter, r *http.Request) {
	h.launch(w, r, "orders", h.service.OrderMonitoring)
}

func (h *MonitoringHandler) LaunchOrderStatusMonitoring(w http.ResponseWriter, r *http.Request) {
	h.launch(w, r, "order statuses", h.service.OrderStatusMonitoring)
}

type importRequest struct {
	ShopID int   `json:"shop_id"`
	NmIDs  []int `json:"nm_ids"`
}

func (h *MonitoringHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request importRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if request.ShopID == 0 || len(request.NmIDs) == 0 {
		http.Error(w, "shop_id and nm_ids are required", http.StatusBadRequest)
		return
	}

	if err := h.service.ImportProducts(r.Context(), request.ShopID, request.NmIDs); err != nil {
		h.log.Log("import failed: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *MonitoringHandler) launch(w http.ResponseWriter, r *http.Request, kind string, run func(ctx context.Context) error) {
	if err := run(r.Context()); err != nil {
		if errors.Is(err, monitor.ErrMonitoringInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.log.Log("%s monitoring failed: %s", kind, err)
		http.Error(w, "monitoring run failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
