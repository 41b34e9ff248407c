package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/models"
	"gomonitor_api/internal/wildberries/business/services"
	"gomonitor_api/internal/wildberries/business/services/parse"
	"gomonitor_api/metrics"
	"gomonitor_api/pkg/logger"
)

// ErrMonitoringInProgress — прогон такого вида уже идет; повторный запуск
// поверх незавершенного привел бы к дублям или потерям в истории.
var ErrMonitoringInProgress = errors.New("monitoring run already in progress")

type ProductRepository interface {
	FetchAll() ([]models.Product, error)
	GetByShopID(shopID int) ([]models.Product, error)
	SaveMany(products []models.Product) error
}

type CharacteristicRepository interface {
	FetchAll() ([]models.Characteristic, error)
	SaveMany(chars []models.Characteristic) error
	DeleteInstances(chars []models.Characteristic) error
}

type OrderRepository interface {
	GetByShopID(shopID int) ([]models.Order, error)
	GetOpenByShopID(shopID int) ([]models.Order, error)
	SaveMany(orders []models.Order) error
}

type HistoryRepository interface {
	SaveMany(histories []models.ProductHistory) error
}

type ShopRepository interface {
	FetchActive() ([]models.Shop, error)
	GetByID(shopID int) (*models.Shop, error)
}

// ChangeNotifier доставляет записи истории во внешний сервис.
// Доставка best-effort, сбой не должен ронять прогон.
type ChangeNotifier interface {
	SendDetectedChanges(ctx context.Context, changes []models.ProductHistory) error
}

type SnapshotProvider interface {
	GetDetailByNms(ctx context.Context, nms []int) ([]parse.ProductSnapshot, *metrics.FetchMetrics)
}

type OrdersAPI interface {
	GetShopOrders(ctx context.Context, auth services.AuthEngine) ([]responses.NewOrder, error)
	GetShopOrdersFBO(ctx context.Context, auth services.AuthEngine) ([]responses.SupplierOrder, error)
	GetShopSales(ctx context.Context, auth services.AuthEngine) ([]responses.SupplierSale, error)
	GetOrderStatuses(ctx context.Context, auth services.AuthEngine, orderIDs []int64) ([]responses.OrderStatus, error)
}

// Service — прогоны мониторинга. Каждый публичный метод выполняет ровно
// один полный проход и возвращается.
type Service struct {
	shops     ShopRepository
	products  ProductRepository
	chars     CharacteristicRepository
	orders    OrderRepository
	histories HistoryRepository

	snapshots SnapshotProvider
	ordersAPI OrdersAPI
	notifier  ChangeNotifier

	log   logger.Logger
	guard runGuard
	now   func() time.Time
}

func NewService(
	shops ShopRepository, products ProductRepository, chars CharacteristicRepository,
	orders OrderRepository, histories HistoryRepository,
	snapshots SnapshotProvider, ordersAPI OrdersAPI, notifier ChangeNotifier,
	writer io.Writer,
) *Service {
	return &Service{
		shops:     shops,
		products:  products,
		chars:     chars,
		orders:    orders,
		histories: histories,
		snapshots: snapshots,
		ordersAPI: ordersAPI,
		notifier:  notifier,
		log:       logger.NewLogger(writer, "[Monitoring]"),
		guard:     runGuard{inFlight: make(map[string]bool)},
		now:       time.Now,
	}
}

// ProductMonitoring сверяет все сохраненные товары с живыми карточками.
// Пустая база — тихий no-op.
func (s *Service) ProductMonitoring(ctx context.Context) (err error) {
	if !s.guard.acquire("products") {
		return ErrMonitoringInProgress
	}
	defer s.guard.release("products")
	defer func() { metrics.RecordMonitoringRun("products", err) }()

	savedProducts, err := s.products.FetchAll()
	if err != nil {
		return fmt.Errorf("fetching saved products: %w", err)
	}
	if len(savedProducts) == 0 {
		return nil
	}
	savedChars, err := s.chars.FetchAll()
	if err != nil {
		return fmt.Errorf("fetching saved characteristics: %w", err)
	}

	nms := make([]int, 0, len(savedProducts))
	for _, product := range savedProducts {
		nms = append(nms, product.NmID)
	}
	snapshots, _ := s.snapshots.GetDetailByNms(ctx, nms)
	parsedProducts, parsedChars := parse.PrepareProducts(snapshots, 0, "")

	diff := DetectChanges(savedProducts, savedChars, parsedProducts, parsedChars, s.now())
	s.log.Log("product monitoring: %d products, %d chars to save, %d chars to delete, %d history entries",
		len(diff.Products), len(diff.Chars), len(diff.CharsToDelete), len(diff.Histories))

	if len(diff.Products) > 0 {
		if err = s.products.SaveMany(diff.Products); err != nil {
			return fmt.Errorf("saving products: %w", err)
		}
	}
	if len(diff.Chars) > 0 {
		if err = s.chars.SaveMany(diff.Chars); err != nil {
			return fmt.Errorf("saving characteristics: %w", err)
		}
	}
	if len(diff.CharsToDelete) > 0 {
		if err = s.chars.DeleteInstances(diff.CharsToDelete); err != nil {
			return fmt.Errorf("deleting characteristics: %w", err)
		}
	}
	if len(diff.Histories) > 0 {
		if err = s.histories.SaveMany(diff.Histories); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		s.notify(ctx, diff.Histories)
		metrics.RecordDetectedChanges("products", len(diff.Histories))
	}
	return nil
}

// OrderMonitoring собирает заказы трех источников по каждому активному
// магазину, отсеивает уже известные и сохраняет новые вместе с историей.
func (s *Service) OrderMonitoring(ctx context.Context) (err error) {
	defer func() { metrics.RecordMonitoringRun("orders", err) }()

	shops, err := s.shops.FetchActive()
	if err != nil {
		return fmt.Errorf("fetching shops: %w", err)
	}

	for _, shop := range shops {
		if err = s.monitorShopOrders(ctx, shop); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) monitorShopOrders(ctx context.Context, shop models.Shop) error {
	key := fmt.Sprintf("orders:%d", shop.ID)
	if !s.guard.acquire(key) {
		return ErrMonitoringInProgress
	}
	defer s.guard.release(key)

	standardAuth := services.NewBearerAuth(shop.APITokenStandard)
	statisticAuth := services.NewBearerAuth(shop.APITokenStatistic)

	// Сбой одного источника не мешает остальным двум.
	var candidates []models.Order
	if standardAuth != nil {
		if newOrders, err := s.ordersAPI.GetShopOrders(ctx, standardAuth); err != nil {
			s.log.Log("shop %d: %s", shop.ID, err)
		} else {
			candidates = append(candidates, parse.PrepareNewOrders(newOrders, shop.ID)...)
		}
	}
	if statisticAuth != nil {
		if fboOrders, err := s.ordersAPI.GetShopOrdersFBO(ctx, statisticAuth); err != nil {
			s.log.Log("shop %d: %s", shop.ID, err)
		} else {
			candidates = append(candidates, parse.PrepareSupplierOrders(fboOrders, shop.ID)...)
		}
		if sales, err := s.ordersAPI.GetShopSales(ctx, statisticAuth); err != nil {
			s.log.Log("shop %d: %s", shop.ID, err)
		} else {
			candidates = append(candidates, parse.PrepareSales(sales, shop.ID)...)
		}
	}

	savedOrders, err := s.orders.GetByShopID(shop.ID)
	if err != nil {
		return fmt.Errorf("fetching saved orders for shop %d: %w", shop.ID, err)
	}
	savedProducts, err := s.products.GetByShopID(shop.ID)
	if err != nil {
		return fmt.Errorf("fetching saved products for shop %d: %w", shop.ID, err)
	}

	orders, histories := DetectNewOrders(candidates, savedOrders, savedProducts, shop, s.now())
	s.log.Log("shop %d: %d candidate orders, %d new", shop.ID, len(candidates), len(orders))
	if len(histories) == 0 {
		return nil
	}

	// Сначала уведомление, затем запись: сбой внешнего сервиса не должен
	// блокировать сохранение.
	s.notify(ctx, histories)
	if err := s.histories.SaveMany(histories); err != nil {
		return fmt.Errorf("saving history for shop %d: %w", shop.ID, err)
	}
	if err := s.orders.SaveMany(orders); err != nil {
		return fmt.Errorf("saving orders for shop %d: %w", shop.ID, err)
	}
	metrics.RecordDetectedChanges("orders", len(histories))
	return nil
}

// OrderStatusMonitoring опрашивает статусы всех открытых заказов с
// числовым uid и фиксирует переходы.
func (s *Service) OrderStatusMonitoring(ctx context.Context) (err error) {
	defer func() { metrics.RecordMonitoringRun("order-status", err) }()

	shops, err := s.shops.FetchActive()
	if err != nil {
		return fmt.Errorf("fetching shops: %w", err)
	}

	for _, shop := range shops {
		if err = s.monitorShopOrderStatuses(ctx, shop); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) monitorShopOrderStatuses(ctx context.Context, shop models.Shop) error {
	key := fmt.Sprintf("order-status:%d", shop.ID)
	if !s.guard.acquire(key) {
		return ErrMonitoringInProgress
	}
	defer s.guard.release(key)

	openOrders, err := s.orders.GetOpenByShopID(shop.ID)
	if err != nil {
		return fmt.Errorf("fetching open orders for shop %d: %w", shop.ID, err)
	}

	orderIDs, numericOrders := NumericOrderIDs(openOrders)
	if len(orderIDs) == 0 {
		return nil
	}

	standardAuth := services.NewBearerAuth(shop.APITokenStandard)
	if standardAuth == nil {
		return nil
	}
	statuses, err := s.ordersAPI.GetOrderStatuses(ctx, standardAuth, orderIDs)
	if err != nil {
		s.log.Log("shop %d: %s", shop.ID, err)
		return nil
	}

	orders, histories := DetectStatusChanges(numericOrders, statuses, shop, s.now())
	if len(histories) == 0 {
		return nil
	}

	s.notify(ctx, histories)
	if err := s.histories.SaveMany(histories); err != nil {
		return fmt.Errorf("saving history for shop %d: %w", shop.ID, err)
	}
	if err := s.orders.SaveMany(orders); err != nil {
		return fmt.Errorf("saving orders for shop %d: %w", shop.ID, err)
	}
	metrics.RecordDetectedChanges("order-status", len(histories))
	return nil
}

func (s *Service) notify(ctx context.Context, histories []models.ProductHistory) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendDetectedChanges(ctx, histories); err != nil {
		s.log.Log("notification sink unavailable: %s", err)
	}
}

// runGuard гарантирует не более одного прогона каждого вида одновременно.
type runGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func (g *runGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[key] {
		return false
	}
	g.inFlight[key] = true
	return true
}

func (g *runGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
}
