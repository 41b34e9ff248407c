package responses

// NewOrdersResponse — marketplace-api /api/v3/orders/new.
type NewOrdersResponse struct {
	Orders []NewOrder `json:"orders"`
}

type NewOrder struct {
	ID             int64 `json:"id"`
	NmID           int   `json:"nmId"`
	Price          int   `json:"price"`
	ConvertedPrice int   `json:"convertedPrice"`
}

// SupplierOrder — statistics-api /api/v1/supplier/orders (заказы FBO).
type SupplierOrder struct {
	Srid          string  `json:"srid"`
	NmID          int     `json:"nmId"`
	PriceWithDisc float64 `json:"priceWithDisc"`
	IsCancel      bool    `json:"isCancel"`
}

// SupplierSale — statistics-api /api/v1/supplier/sales (продажи и возвраты).
type SupplierSale struct {
	SaleID        string  `json:"saleID"`
	Srid          string  `json:"srid"`
	NmID          int     `json:"nmId"`
	PriceWithDisc float64 `json:"priceWithDisc"`
	IsCancel      bool    `json:"isCancel"`
}

// OrderStatusesRequest — батч числовых id заданий, не более 1000 за запрос.
type OrderStatusesRequest struct {
	Orders []int64 `json:"orders"`
}

type OrderStatusesResponse struct {
	Orders []OrderStatus `json:"orders"`
}

type OrderStatus struct {
	ID             int64  `json:"id"`
	SupplierStatus string `json:"supplierStatus"`
	WbStatus       string `json:"wbStatus"`
}
