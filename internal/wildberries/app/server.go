package app

import (
	"io"
	"log"

	"gomonitor_api/config"
	"gomonitor_api/internal/wildberries/app/web"
	"gomonitor_api/internal/wildberries/app/web/handlers"
	"gomonitor_api/internal/wildberries/business/services/monitor"
	"gomonitor_api/internal/wildberries/business/services/parse"
	"gomonitor_api/internal/wildberries/business/services/wbapi"
	"gomonitor_api/internal/wildberries/pkg/clients"
	"gomonitor_api/internal/wildberries/storage"
	"gomonitor_api/migrations/infrastructure"
	"gomonitor_api/migrations/marketplaces/wb"
	"gomonitor_api/pkg/dbconnect"
	"gomonitor_api/pkg/dbconnect/migration"
	"gomonitor_api/pkg/logger"
)

type MonitoringServer struct {
	dbconnect.Database
	config *config.AppConfig
	log    logger.Logger
	writer io.Writer
}

func NewMonitoringServer(connector dbconnect.Database, cfg *config.AppConfig, writer io.Writer) *MonitoringServer {
	_log := logger.NewLogger(writer, "[MonitoringServer]")
	return &MonitoringServer{Database: connector, config: cfg, log: _log, writer: writer}
}

func (s *MonitoringServer) Run() error {
	db, err := s.Connect()
	if err != nil {
		s.log.FatalLog("Error connecting to PostgreSQL: %s", err)
	}
	defer db.Close()

	migrationApply := []migration.MigrationInterface{
		&infrastructure.MigrationsSchema{},
		&wb.CreateWBSchema{},
		&wb.CreateWBShopsTable{},
		&wb.CreateWBProductsTable{},
		&wb.CreateWBCharacteristicsTable{},
		&wb.CreateWBOrdersTable{},
		&wb.CreateWBHistoriesTable{},
	}
	for _, _migration := range migrationApply {
		if err := _migration.UpMigration(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}
	s.log.Log("WB migrations applied successfully!")

	monitoringService := monitor.NewService(
		storage.NewShopRepository(db),
		storage.NewProductRepository(db),
		storage.NewCharacteristicRepository(db),
		storage.NewOrderRepository(db),
		storage.NewHistoryRepository(db),
		parse.NewSnapshotService(s.writer),
		wbapi.NewOrdersClient(s.writer),
		clients.NewAdvertClient(s.config.Advert.Host, s.writer),
		s.writer,
	)

	handler := handlers.NewMonitoringHandler(monitoringService, s.writer)
	return web.SetupRoutes(s.config.Server.Addr, handler)
}
