package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/models"
)

func TestPrepareProducts(t *testing.T) {
	snapshot := ProductSnapshot{
		NmID: 42,
		Card: responses.CardResponse{
			NmID:         42,
			VendorCode:   "vc-1",
			SubjName:     "subj",
			SubjRootName: "root",
			ImtName:      "imt",
			Description:  "desc",
			Options: []responses.CardOption{
				{Name: "Цвет", Value: "красный"},
				{Name: "Состав", Value: "хлопок"},
			},
		},
	}
	snapshot.Detail.Brand = "Brand"
	snapshot.Detail.Name = "Name"
	snapshot.Detail.PriceU = 65799
	snapshot.Detail.SalePriceU = 199
	snapshot.Detail.Extended.ClientSale = 10
	snapshot.Detail.Extended.BasicSale = 20

	products, chars := PrepareProducts([]ProductSnapshot{snapshot}, 7, "supplier")
	require.Len(t, products, 1)

	product := products[0]
	assert.Equal(t, 42, product.NmID)
	assert.Equal(t, "vc-1", product.VendorCode)
	assert.Equal(t, "Brand", product.Brand)
	// subj-поля разложены в историческом порядке
	assert.Equal(t, "root", product.SubjName)
	assert.Equal(t, "subj", product.SubjRootName)
	// копейки в рубли с усечением
	assert.Equal(t, 657, product.PriceU)
	assert.Equal(t, 1, product.SalePriceU)
	assert.Equal(t, 10, product.ClientSale)
	assert.Equal(t, 20, product.BasicSale)
	assert.Equal(t, 7, product.ShopID)

	require.Len(t, chars, 2)
	assert.Equal(t, models.Characteristic{Name: "Цвет", Value: "красный", ProductNmID: 42}, chars[0])
	assert.Equal(t, models.Characteristic{Name: "Состав", Value: "хлопок", ProductNmID: 42}, chars[1])
}

func TestPrepareProductsCollapsesDuplicateOptionNames(t *testing.T) {
	snapshot := ProductSnapshot{
		NmID: 42,
		Card: responses.CardResponse{
			NmID: 42,
			Options: []responses.CardOption{
				{Name: "Цвет", Value: "красный"},
				{Name: "Состав", Value: "хлопок"},
				{Name: "Цвет", Value: "синий"},
			},
		},
	}

	_, chars := PrepareProducts([]ProductSnapshot{snapshot}, 1, "supplier")

	// имя характеристики уникально в рамках товара, побеждает последнее значение
	require.Len(t, chars, 2)
	assert.Equal(t, models.Characteristic{Name: "Цвет", Value: "синий", ProductNmID: 42}, chars[0])
	assert.Equal(t, models.Characteristic{Name: "Состав", Value: "хлопок", ProductNmID: 42}, chars[1])
}

func TestPrepareProductsDefaultsMissingFields(t *testing.T) {
	// Пустые документы не валят элемент: поля остаются нулевыми.
	products, chars := PrepareProducts([]ProductSnapshot{{NmID: 42}}, 0, "")
	require.Len(t, products, 1)
	assert.Equal(t, 42, products[0].NmID)
	assert.Empty(t, products[0].Brand)
	assert.Zero(t, products[0].PriceU)
	assert.Empty(t, chars)
}

func TestPrepareNewOrders(t *testing.T) {
	orders := PrepareNewOrders([]responses.NewOrder{
		{ID: 772144730, NmID: 87731558, ConvertedPrice: 65700},
	}, 1)
	require.Len(t, orders, 1)
	assert.Equal(t, "772144730", orders[0].OrderUID)
	assert.Equal(t, models.OrderStatusNew, orders[0].Status)
	assert.Equal(t, 657, orders[0].PriceForSale)
}

func TestPrepareSupplierOrdersAppendsCancelSuffix(t *testing.T) {
	orders := PrepareSupplierOrders([]responses.SupplierOrder{
		{Srid: "R123", NmID: 5},
	}, 1)
	require.Len(t, orders, 1)
	assert.Equal(t, "R123_canceled", orders[0].OrderUID)
	assert.Equal(t, models.OrderStatusComplete, orders[0].Status)
}

func TestPrepareSales(t *testing.T) {
	orders := PrepareSales([]responses.SupplierSale{
		{SaleID: "S9993", NmID: 5},
		{SaleID: "R100", NmID: 6, IsCancel: true},
	}, 1)
	require.Len(t, orders, 2)
	assert.Equal(t, "S9993", orders[0].OrderUID)
	assert.Equal(t, "R100_canceled", orders[1].OrderUID)
	assert.Equal(t, models.OrderStatusComplete, orders[0].Status)
}
