package models

// Shop хранит интеграционные токены магазина. Токены независимы:
// standard — marketplace API, statistic — statistics API, advert — внешний
// сервис статистики изменений.
type Shop struct {
	ID                int
	Name              string
	Supplier          string
	APITokenStandard  string
	APITokenStatistic string
	APITokenAdvert    string
	IsActive          bool
}
