package models

import "time"

// Product — карточка товара в разрезе магазина. Бизнес-ключ (ShopID, NmID).
type Product struct {
	NmID         int
	VendorCode   string
	Brand        string
	SubjName     string
	SubjRootName string
	ImtName      string
	Name         string
	Description  string

	// Цены хранятся в рублях, источник отдает копейки.
	PriceU     int
	SalePriceU int
	ClientSale int
	BasicSale  int

	ShopID    int
	Supplier  string
	UpdatedAt time.Time
}

// Characteristic — атрибут товара, ключ (ProductNmID, Name).
type Characteristic struct {
	Name        string
	Value       string
	ProductNmID int
}
