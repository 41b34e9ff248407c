package parse

import (
	"strconv"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/models"
)

// PrepareProducts переводит сырые снапшоты в канонические записи.
// Отсутствующие поля остаются нулевыми, элемент целиком не отбрасывается.
// Цены источника в копейках, храним в рублях с усечением.
func PrepareProducts(snapshots []ProductSnapshot, shopID int, supplier string) ([]models.Product, []models.Characteristic) {
	products := make([]models.Product, 0, len(snapshots))
	characteristics := make([]models.Characteristic, 0)

	for _, snapshot := range snapshots {
		nmID := snapshot.Card.NmID
		if nmID == 0 {
			nmID = snapshot.NmID
		}

		products = append(products, models.Product{
			NmID:       nmID,
			VendorCode: snapshot.Card.VendorCode,
			Brand:      snapshot.Detail.Brand,
			// Порядок отображения subj-полей исторический, менять нельзя:
			// сохраненные записи уже разложены именно так.
			SubjName:     snapshot.Card.SubjRootName,
			SubjRootName: snapshot.Card.SubjName,
			ImtName:      snapshot.Card.ImtName,
			Name:         snapshot.Detail.Name,
			Description:  snapshot.Card.Description,
			PriceU:       snapshot.Detail.PriceU / 100,
			SalePriceU:   snapshot.Detail.SalePriceU / 100,
			ClientSale:   snapshot.Detail.Extended.ClientSale,
			BasicSale:    snapshot.Detail.Extended.BasicSale,
			ShopID:       shopID,
			Supplier:     supplier,
		})

		// Дубли имен в options схлопываются: имя характеристики уникально
		// в рамках товара, последнее значение побеждает.
		seenAt := make(map[string]int, len(snapshot.Card.Options))
		for _, option := range snapshot.Card.Options {
			if i, ok := seenAt[option.Name]; ok {
				characteristics[i].Value = option.Value
				continue
			}
			seenAt[option.Name] = len(characteristics)
			characteristics = append(characteristics, models.Characteristic{
				Name:        option.Name,
				Value:       option.Value,
				ProductNmID: nmID,
			})
		}
	}
	return products, characteristics
}

// PrepareNewOrders — сборочные задания: uid это числовой id задания как есть.
func PrepareNewOrders(orders []responses.NewOrder, shopID int) []models.Order {
	prepared := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		prepared = append(prepared, models.Order{
			OrderUID:     strconv.FormatInt(order.ID, 10),
			NmID:         order.NmID,
			Status:       models.OrderStatusNew,
			PriceForSale: order.ConvertedPrice / 100,
			ShopID:       shopID,
		})
	}
	return prepared
}

// PrepareSupplierOrders — заказы FBO: к srid дописывается маркер отмены.
func PrepareSupplierOrders(orders []responses.SupplierOrder, shopID int) []models.Order {
	prepared := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		prepared = append(prepared, models.Order{
			OrderUID:     order.Srid + models.CancelSuffix,
			NmID:         order.NmID,
			Status:       models.OrderStatusComplete,
			PriceForSale: int(order.PriceWithDisc),
			ShopID:       shopID,
		})
	}
	return prepared
}

// PrepareSales — продажи и возвраты: uid это saleID, для отмененных
// записей с маркером отмены.
func PrepareSales(sales []responses.SupplierSale, shopID int) []models.Order {
	prepared := make([]models.Order, 0, len(sales))
	for _, sale := range sales {
		uid := sale.SaleID
		if sale.IsCancel {
			uid += models.CancelSuffix
		}
		prepared = append(prepared, models.Order{
			OrderUID:     uid,
			NmID:         sale.NmID,
			Status:       models.OrderStatusComplete,
			PriceForSale: int(sale.PriceWithDisc),
			ShopID:       shopID,
		})
	}
	return prepared
}
