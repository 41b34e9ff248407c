package responses

// DetailResponse — ответ агрегирующего эндпоинта card.wb.ru/cards/detail.
type DetailResponse struct {
	Data struct {
		Products []DetailProduct `json:"products"`
	} `json:"data"`
}

// DetailProduct содержит цены в копейках (priceU, salePriceU).
type DetailProduct struct {
	Brand      string `json:"brand"`
	Name       string `json:"name"`
	PriceU     int    `json:"priceU"`
	SalePriceU int    `json:"salePriceU"`
	Extended   struct {
		ClientSale int `json:"clientSale"`
		BasicSale  int `json:"basicSale"`
	} `json:"extended"`
}
