package web

import (
	"log"
	"net/http"

	"gomonitor_api/internal/wildberries/app/web/handlers"
	"gomonitor_api/metrics"
	"gomonitor_api/pkg/middleware"
)

func SetupRoutes(addr string, handler *handlers.MonitoringHandler) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/product-management/launch-product-monitoring/", handler.LaunchProductMonitoring)
	mux.HandleFunc("/product-management/launch-order-monitoring/", handler.LaunchOrderMonitoring)
	mux.HandleFunc("/product-management/launch-order-status-monitoring/", handler.LaunchOrderStatusMonitoring)
	mux.HandleFunc("/product-management/import-products/", handler.ImportProducts)
	mux.Handle("/metrics", metrics.MetricsHandler())

	log.Printf("Запущен сервис мониторинга %s", addr)
	return http.ListenAndServe(addr, middleware.PrometheusMiddleware(mux))
}
