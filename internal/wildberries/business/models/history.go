package models

import "time"

// ProductHistory — неизменяемая запись о замеченном изменении.
// Единственный путь записи — вставка, обновлений и удалений нет.
type ProductHistory struct {
	NmID      int
	Action    string
	CreatedAt time.Time
	ShopID    int
	Supplier  string
}
