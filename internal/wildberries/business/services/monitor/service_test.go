package monitor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/models"
	"gomonitor_api/internal/wildberries/business/services"
	"gomonitor_api/internal/wildberries/business/services/parse"
	"gomonitor_api/metrics"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products []models.Product
	saved    [][]models.Product
	fetchErr error
}

func (r *fakeProductRepo) FetchAll() ([]models.Product, error) {
	return r.products, r.fetchErr
}

func (r *fakeProductRepo) GetByShopID(shopID int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	return out, r.fetchErr
}

func (r *fakeProductRepo) SaveMany(products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, products)
	return nil
}

type fakeCharRepo struct {
	chars   []models.Characteristic
	saved   [][]models.Characteristic
	deleted [][]models.Characteristic
}

func (r *fakeCharRepo) FetchAll() ([]models.Characteristic, error) { return r.chars, nil }

func (r *fakeCharRepo) SaveMany(chars []models.Characteristic) error {
	r.saved = append(r.saved, chars)
	return nil
}

func (r *fakeCharRepo) DeleteInstances(chars []models.Characteristic) error {
	r.deleted = append(r.deleted, chars)
	return nil
}

type fakeOrderRepo struct {
	orders     []models.Order
	openOrders []models.Order
	saved      [][]models.Order
}

func (r *fakeOrderRepo) GetByShopID(shopID int) ([]models.Order, error)     { return r.orders, nil }
func (r *fakeOrderRepo) GetOpenByShopID(shopID int) ([]models.Order, error) { return r.openOrders, nil }

func (r *fakeOrderRepo) SaveMany(orders []models.Order) error {
	r.saved = append(r.saved, orders)
	return nil
}

type fakeHistoryRepo struct {
	saved [][]models.ProductHistory
	err   error
}

func (r *fakeHistoryRepo) SaveMany(histories []models.ProductHistory) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, histories)
	return nil
}

type fakeShopRepo struct {
	shops []models.Shop
}

func (r *fakeShopRepo) FetchActive() ([]models.Shop, error) { return r.shops, nil }

func (r *fakeShopRepo) GetByID(shopID int) (*models.Shop, error) {
	for i := range r.shops {
		if r.shops[i].ID == shopID {
			return &r.shops[i], nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  [][]models.ProductHistory
	err   error
	calls int
}

func (n *fakeNotifier) SendDetectedChanges(ctx context.Context, changes []models.ProductHistory) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, changes)
	return nil
}

// fakeSnapshots возвращает заготовленные снимки; release позволяет
// удерживать прогон внутри загрузки для проверки повторного запуска.
type fakeSnapshots struct {
	snapshots []parse.ProductSnapshot
	block     chan struct{}
	started   chan struct{}
}

func (f *fakeSnapshots) GetDetailByNms(ctx context.Context, nms []int) ([]parse.ProductSnapshot, *metrics.FetchMetrics) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	fm := &metrics.FetchMetrics{}
	fm.ProcessedCount.Store(int32(len(f.snapshots)))
	return f.snapshots, fm
}

type fakeOrdersAPI struct {
	newOrders []responses.NewOrder
	fboOrders []responses.SupplierOrder
	sales     []responses.SupplierSale
	statuses  []responses.OrderStatus

	statusRequests [][]int64
	newErr         error
	statusErr      error
}

func (f *fakeOrdersAPI) GetShopOrders(ctx context.Context, auth services.AuthEngine) ([]responses.NewOrder, error) {
	return f.newOrders, f.newErr
}

func (f *fakeOrdersAPI) GetShopOrdersFBO(ctx context.Context, auth services.AuthEngine) ([]responses.SupplierOrder, error) {
	return f.fboOrders, nil
}

func (f *fakeOrdersAPI) GetShopSales(ctx context.Context, auth services.AuthEngine) ([]responses.SupplierSale, error) {
	return f.sales, nil
}

func (f *fakeOrdersAPI) GetOrderStatuses(ctx context.Context, auth services.AuthEngine, orderIDs []int64) ([]responses.OrderStatus, error) {
	f.statusRequests = append(f.statusRequests, orderIDs)
	return f.statuses, f.statusErr
}

type serviceFixture struct {
	products  *fakeProductRepo
	chars     *fakeCharRepo
	orders    *fakeOrderRepo
	histories *fakeHistoryRepo
	shops     *fakeShopRepo
	snapshots *fakeSnapshots
	ordersAPI *fakeOrdersAPI
	notifier  *fakeNotifier
	service   *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		products:  &fakeProductRepo{},
		chars:     &fakeCharRepo{},
		orders:    &fakeOrderRepo{},
		histories: &fakeHistoryRepo{},
		shops:     &fakeShopRepo{},
		snapshots: &fakeSnapshots{},
		ordersAPI: &fakeOrdersAPI{},
		notifier:  &fakeNotifier{},
	}
	f.service = NewService(
		f.shops, f.products, f.chars, f.orders, f.histories,
		f.snapshots, f.ordersAPI, f.notifier, io.Discard,
	)
	f.service.now = func() time.Time { return testNow }
	return f
}

func activeShop() models.Shop {
	return models.Shop{
		ID:                1,
		Supplier:          "supplier",
		APITokenStandard:  "std-token",
		APITokenStatistic: "stat-token",
		IsActive:          true,
	}
}

func snapshotFor(p models.Product) parse.ProductSnapshot {
	detail := responses.DetailProduct{
		Brand:      p.Brand,
		Name:       p.Name,
		PriceU:     p.PriceU * 100,
		SalePriceU: p.SalePriceU * 100,
	}
	detail.Extended.ClientSale = p.ClientSale
	detail.Extended.BasicSale = p.BasicSale
	return parse.ProductSnapshot{
		NmID: p.NmID,
		Card: responses.CardResponse{
			NmID:       p.NmID,
			VendorCode: p.VendorCode,
			// card.json отдает subj-поля переставленными
			SubjName:     p.SubjRootName,
			SubjRootName: p.SubjName,
			ImtName:      p.ImtName,
			Description:  p.Description,
		},
		Detail: detail,
	}
}

func TestProductMonitoringEmptyDatabaseIsNoOp(t *testing.T) {
	f := newServiceFixture()

	err := f.service.ProductMonitoring(context.Background())

	require.NoError(t, err)
	assert.Empty(t, f.products.saved)
	assert.Empty(t, f.histories.saved)
	assert.Zero(t, f.notifier.calls)
}

func TestProductMonitoringPersistsThenNotifies(t *testing.T) {
	f := newServiceFixture()
	saved := testProduct(42)
	f.products.products = []models.Product{saved}

	changed := saved
	changed.Brand = "NewBrand"
	f.snapshots.snapshots = []parse.ProductSnapshot{snapshotFor(changed)}

	err := f.service.ProductMonitoring(context.Background())

	require.NoError(t, err)
	require.Len(t, f.products.saved, 1)
	assert.Equal(t, "NewBrand", f.products.saved[0][0].Brand)
	require.Len(t, f.histories.saved, 1)
	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0][0].Action, "бренда")
}

func TestProductMonitoringNoChangesNoWrites(t *testing.T) {
	f := newServiceFixture()
	saved := testProduct(42)
	f.products.products = []models.Product{saved}
	f.snapshots.snapshots = []parse.ProductSnapshot{snapshotFor(saved)}

	err := f.service.ProductMonitoring(context.Background())

	require.NoError(t, err)
	assert.Empty(t, f.products.saved)
	assert.Empty(t, f.histories.saved)
	assert.Zero(t, f.notifier.calls)
}

func TestProductMonitoringRejectsConcurrentRun(t *testing.T) {
	f := newServiceFixture()
	f.products.products = []models.Product{testProduct(42)}
	f.snapshots.block = make(chan struct{})
	f.snapshots.started = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- f.service.ProductMonitoring(context.Background())
	}()
	<-f.snapshots.started

	err := f.service.ProductMonitoring(context.Background())
	assert.ErrorIs(t, err, ErrMonitoringInProgress)

	close(f.snapshots.block)
	require.NoError(t, <-firstDone)

	// после завершения прогона запуск снова разрешен
	f.snapshots.block = nil
	f.snapshots.started = nil
	require.NoError(t, f.service.ProductMonitoring(context.Background()))
}

func TestOrderMonitoringNotifiesBeforeSaving(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	f.ordersAPI.newOrders = []responses.NewOrder{
		{ID: 772144730, NmID: 10, ConvertedPrice: 150000},
	}
	// сбой уведомления не блокирует сохранение
	f.notifier.err = errors.New("sink down")

	err := f.service.OrderMonitoring(context.Background())

	require.NoError(t, err)
	require.Len(t, f.orders.saved, 1)
	assert.Equal(t, "772144730", f.orders.saved[0][0].OrderUID)
	assert.Equal(t, models.OrderStatusNew, f.orders.saved[0][0].Status)
	assert.Equal(t, 1500, f.orders.saved[0][0].PriceForSale)
	require.Len(t, f.histories.saved, 1)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestOrderMonitoringMergesThreeSources(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	f.ordersAPI.newOrders = []responses.NewOrder{{ID: 1, NmID: 10, ConvertedPrice: 100}}
	f.ordersAPI.fboOrders = []responses.SupplierOrder{{Srid: "ab12", NmID: 20, PriceWithDisc: 200}}
	f.ordersAPI.sales = []responses.SupplierSale{{SaleID: "S9993", NmID: 30, PriceWithDisc: 300}}

	err := f.service.OrderMonitoring(context.Background())

	require.NoError(t, err)
	require.Len(t, f.orders.saved, 1)
	uids := make([]string, 0, 3)
	for _, o := range f.orders.saved[0] {
		uids = append(uids, o.OrderUID)
	}
	assert.ElementsMatch(t, []string{"1", "ab12_canceled", "S9993"}, uids)
}

func TestOrderMonitoringSourceFailureDoesNotBlockOthers(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	f.ordersAPI.newErr = errors.New("marketplace api down")
	f.ordersAPI.sales = []responses.SupplierSale{{SaleID: "S1", NmID: 30, PriceWithDisc: 300}}

	err := f.service.OrderMonitoring(context.Background())

	require.NoError(t, err)
	require.Len(t, f.orders.saved, 1)
	require.Len(t, f.orders.saved[0], 1)
	assert.Equal(t, "S1", f.orders.saved[0][0].OrderUID)
}

func TestOrderMonitoringAllKnownIsNoOp(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	f.ordersAPI.newOrders = []responses.NewOrder{{ID: 100, NmID: 10, ConvertedPrice: 100}}
	f.orders.orders = []models.Order{{OrderUID: "100", NmID: 10, ShopID: 1}}

	err := f.service.OrderMonitoring(context.Background())

	require.NoError(t, err)
	assert.Empty(t, f.orders.saved)
	assert.Empty(t, f.histories.saved)
	assert.Zero(t, f.notifier.calls)
}

func TestOrderStatusMonitoringSkipsNonNumericUIDs(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	f.orders.openOrders = []models.Order{
		{OrderUID: "100", NmID: 10, Status: models.OrderStatusNew, ShopID: 1},
		{OrderUID: "S9993", NmID: 20, Status: models.OrderStatusComplete, ShopID: 1},
	}
	f.ordersAPI.statuses = []responses.OrderStatus{{ID: 100, SupplierStatus: "confirm"}}

	err := f.service.OrderStatusMonitoring(context.Background())

	require.NoError(t, err)
	require.Len(t, f.ordersAPI.statusRequests, 1)
	assert.Equal(t, []int64{100}, f.ordersAPI.statusRequests[0])
	require.Len(t, f.orders.saved, 1)
	assert.Equal(t, "confirm", f.orders.saved[0][0].Status)
}

func TestOrderStatusMonitoringAPIErrorIsNonFatal(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	f.orders.openOrders = []models.Order{{OrderUID: "100", NmID: 10, Status: models.OrderStatusNew, ShopID: 1}}
	f.ordersAPI.statusErr = errors.New("statistics api down")

	err := f.service.OrderStatusMonitoring(context.Background())

	require.NoError(t, err)
	assert.Empty(t, f.orders.saved)
	assert.Empty(t, f.histories.saved)
}

func TestImportProducts(t *testing.T) {
	f := newServiceFixture()
	f.shops.shops = []models.Shop{activeShop()}
	want := testProduct(42)
	f.snapshots.snapshots = []parse.ProductSnapshot{snapshotFor(want)}

	err := f.service.ImportProducts(context.Background(), 1, []int{42})

	require.NoError(t, err)
	require.Len(t, f.products.saved, 1)
	assert.Equal(t, 42, f.products.saved[0][0].NmID)
	assert.Equal(t, 1, f.products.saved[0][0].ShopID)
	assert.Equal(t, "supplier", f.products.saved[0][0].Supplier)
}

func TestImportProductsInactiveShop(t *testing.T) {
	f := newServiceFixture()
	shop := activeShop()
	shop.IsActive = false
	f.shops.shops = []models.Shop{shop}

	err := f.service.ImportProducts(context.Background(), 1, []int{42})

	require.Error(t, err)
	assert.Empty(t, f.products.saved)
}
