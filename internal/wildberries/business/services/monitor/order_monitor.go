package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/models"
)

// DetectNewOrders отсеивает кандидатов, чей uid уже сохранен или чей
// nm_id уже числится среди товаров магазина, и для каждого выжившего
// заказа формирует запись истории с классификацией события.
func DetectNewOrders(
	candidates []models.Order,
	savedOrders []models.Order, savedProducts []models.Product,
	shop models.Shop, now time.Time,
) ([]models.Order, []models.ProductHistory) {
	savedUIDs := make(map[string]struct{}, len(savedOrders))
	for _, order := range savedOrders {
		savedUIDs[order.OrderUID] = struct{}{}
	}
	savedNmIDs := make(map[int]struct{}, len(savedProducts))
	for _, product := range savedProducts {
		savedNmIDs[product.NmID] = struct{}{}
	}

	var surviving []models.Order
	var histories []models.ProductHistory
	for _, order := range candidates {
		if _, ok := savedUIDs[order.OrderUID]; ok {
			continue
		}
		if _, ok := savedNmIDs[order.NmID]; ok {
			continue
		}

		// дубль uid внутри одного ответа источника не проходит дважды
		savedUIDs[order.OrderUID] = struct{}{}
		surviving = append(surviving, order)
		histories = append(histories, models.ProductHistory{
			NmID:      order.NmID,
			Action:    classifyOrderAction(order),
			CreatedAt: now,
			ShopID:    shop.ID,
			Supplier:  shop.Supplier,
		})
	}
	return surviving, histories
}

// classifyOrderAction выбирает текст события по статусу и форме uid.
func classifyOrderAction(order models.Order) string {
	if order.Status == models.OrderStatusNew {
		return fmt.Sprintf("Новое сборочное задание у товара с артикулом %d", order.NmID)
	}
	if order.OrderUID != "" {
		switch order.OrderUID[0] {
		case models.SaleMarker:
			return fmt.Sprintf("Продажа товара с артикулом %d", order.NmID)
		case models.ReturnMarker:
			return fmt.Sprintf("Возврат товара с артикулом %d", order.NmID)
		}
	}
	if strings.Contains(order.OrderUID, models.CancelSuffix) {
		return fmt.Sprintf("Отмена заказа у товара с артикулом %d", order.NmID)
	}
	return fmt.Sprintf("Новый заказ у товара с артикулом %d", order.NmID)
}

// NumericOrderIDs отбирает заказы с числовым uid для опроса статусов.
// Продажи и возвраты числового id не имеют и в опросе не участвуют.
func NumericOrderIDs(orders []models.Order) ([]int64, []models.Order) {
	ids := make([]int64, 0, len(orders))
	numeric := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		id, err := strconv.ParseInt(order.OrderUID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		numeric = append(numeric, order)
	}
	return ids, numeric
}

// DetectStatusChanges соединяет открытые заказы с ответами эндпоинта
// статусов по числовому id и фиксирует переходы supplierStatus.
func DetectStatusChanges(
	orders []models.Order, statuses []responses.OrderStatus,
	shop models.Shop, now time.Time,
) ([]models.Order, []models.ProductHistory) {
	statusByID := make(map[int64]string, len(statuses))
	for _, status := range statuses {
		statusByID[status.ID] = status.SupplierStatus
	}

	var toSave []models.Order
	var histories []models.ProductHistory
	for _, order := range orders {
		id, err := strconv.ParseInt(order.OrderUID, 10, 64)
		if err != nil {
			continue
		}
		status, ok := statusByID[id]
		if !ok || status == order.Status {
			continue
		}

		histories = append(histories, models.ProductHistory{
			NmID: order.NmID,
			Action: fmt.Sprintf(
				"Изменился статус сборочного задания с %q на %q", order.Status, status),
			CreatedAt: now,
			ShopID:    shop.ID,
			Supplier:  shop.Supplier,
		})

		updated := order
		updated.Status = status
		toSave = append(toSave, updated)
	}
	return toSave, histories
}
