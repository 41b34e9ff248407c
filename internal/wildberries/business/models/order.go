package models

const (
	OrderStatusNew      = "new"
	OrderStatusComplete = "complete"
	OrderStatusCancel   = "cancel"
)

// CancelSuffix дописывается к нативному идентификатору источника,
// если заказ помечен отмененным.
const CancelSuffix = "_canceled"

const (
	SaleMarker   = 'S'
	ReturnMarker = 'R'
)

// Order — заказ магазина. OrderUID уникален в рамках магазина; форма uid
// зависит от источника (числовой id задания, srid, saleID).
type Order struct {
	OrderUID     string
	NmID         int
	Status       string
	PriceForSale int
	ShopID       int
}

// Terminal сообщает, что заказ больше не участвует в опросе статусов.
func (o Order) Terminal() bool {
	return o.Status == OrderStatusComplete || o.Status == OrderStatusCancel
}
