package monitor

import (
	"fmt"
	"time"

	"gomonitor_api/internal/wildberries/business/models"
)

// ProductDiff — результат сверки сохраненного состояния с живым.
type ProductDiff struct {
	Products      []models.Product
	Chars         []models.Characteristic
	CharsToDelete []models.Characteristic
	Histories     []models.ProductHistory
}

// DetectChanges сверяет товары и характеристики. Товары сопоставляются
// по nm_id только там, где запись есть с обеих сторон: создание и
// удаление товара идет отдельным путем импорта, здесь оно не событие.
// Входные записи не мутируются, наружу отдаются обновленные копии.
func DetectChanges(
	savedProducts []models.Product, savedChars []models.Characteristic,
	parsedProducts []models.Product, parsedChars []models.Characteristic,
	now time.Time,
) ProductDiff {
	parsedByNm := make(map[int]models.Product, len(parsedProducts))
	for _, product := range parsedProducts {
		parsedByNm[product.NmID] = product
	}

	savedCharsByNm := groupCharsByNm(savedChars)
	parsedCharsByNm := groupCharsByNm(parsedChars)

	var diff ProductDiff
	for _, saved := range savedProducts {
		parsed, ok := parsedByNm[saved.NmID]
		if !ok {
			continue
		}

		updated, actions := detectProductChanges(saved, parsed, now)
		if len(actions) > 0 {
			diff.Products = append(diff.Products, updated)
		}

		charsToSave, charsToDelete, charActions := detectCharacteristicChanges(
			savedCharsByNm[saved.NmID], parsedCharsByNm[saved.NmID])
		diff.Chars = append(diff.Chars, charsToSave...)
		diff.CharsToDelete = append(diff.CharsToDelete, charsToDelete...)

		for _, action := range append(actions, charActions...) {
			diff.Histories = append(diff.Histories, models.ProductHistory{
				NmID:      saved.NmID,
				Action:    action,
				CreatedAt: now,
				ShopID:    saved.ShopID,
				Supplier:  saved.Supplier,
			})
		}
	}
	return diff
}

// detectProductChanges сравнивает изменяемые поля в фиксированном порядке
// и возвращает обновленную копию вместе с текстами изменений.
func detectProductChanges(saved, parsed models.Product, now time.Time) (models.Product, []string) {
	updated := saved
	var actions []string

	if saved.VendorCode != parsed.VendorCode {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение вендор кода товара \n с %s на %s", saved.VendorCode, parsed.VendorCode))
		updated.VendorCode = parsed.VendorCode
	}
	if saved.Brand != parsed.Brand {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение бренда товара \n с %q на %q", saved.Brand, parsed.Brand))
		updated.Brand = parsed.Brand
	}
	if saved.SubjName != parsed.SubjName {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение подкатегории товара \n с %q на %q", saved.SubjName, parsed.SubjName))
		updated.SubjName = parsed.SubjName
	}
	if saved.ImtName != parsed.ImtName {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение imt_name товара \n с %q на %q", saved.ImtName, parsed.ImtName))
		updated.ImtName = parsed.ImtName
	}
	if saved.Name != parsed.Name {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение в наименовании товара \n с %q на %q", saved.Name, parsed.Name))
		updated.Name = parsed.Name
	}
	if saved.Description != parsed.Description {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение в описании товара \n с %q на %q", saved.Description, parsed.Description))
		updated.Description = parsed.Description
	}
	if saved.PriceU != parsed.PriceU {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение в цене товара до скидки\n с \"%d\" на \"%d\"", saved.PriceU, parsed.PriceU))
		updated.PriceU = parsed.PriceU
	}
	if saved.SalePriceU != parsed.SalePriceU {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение в цене товара после скидки\n с \"%d\" на \"%d\"", saved.SalePriceU, parsed.SalePriceU))
		updated.SalePriceU = parsed.SalePriceU
	}
	if saved.ClientSale != parsed.ClientSale {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение скидки товара ССП\n с \"%d\" на \"%d\"", saved.ClientSale, parsed.ClientSale))
		updated.ClientSale = parsed.ClientSale
	}
	if saved.BasicSale != parsed.BasicSale {
		actions = append(actions, fmt.Sprintf(
			"Замечено изменение скидки покупателя товара \n с \"%d\" на \"%d\"", saved.BasicSale, parsed.BasicSale))
		updated.BasicSale = parsed.BasicSale
	}

	if len(actions) > 0 {
		updated.UpdatedAt = now
	}
	return updated, actions
}

// detectCharacteristicChanges — внешнее соединение по имени характеристики:
// только живая — добавлена, только сохраненная — удалена, обе с разным
// значением — изменена. Порядок: сохраненные как во входе, затем новые.
func detectCharacteristicChanges(savedChars, parsedChars []models.Characteristic) (
	toSave, toDelete []models.Characteristic, actions []string) {

	parsedByName := make(map[string]models.Characteristic, len(parsedChars))
	for _, char := range parsedChars {
		parsedByName[char.Name] = char
	}

	savedNames := make(map[string]struct{}, len(savedChars))
	for _, saved := range savedChars {
		savedNames[saved.Name] = struct{}{}

		parsed, ok := parsedByName[saved.Name]
		if !ok {
			actions = append(actions, fmt.Sprintf(
				"Удалена характеристика товара с названием %s и со значением %s", saved.Name, saved.Value))
			toDelete = append(toDelete, saved)
			continue
		}
		if saved.Value != parsed.Value {
			actions = append(actions, fmt.Sprintf(
				"Поменялось значение характеристики %s с %s на %s", saved.Name, saved.Value, parsed.Value))
			updated := saved
			updated.Value = parsed.Value
			toSave = append(toSave, updated)
		}
	}

	for _, parsed := range parsedChars {
		if _, ok := savedNames[parsed.Name]; ok {
			continue
		}
		// имя уникально в рамках товара, дубль во входе не порождает
		// вторую строку upsert-а
		savedNames[parsed.Name] = struct{}{}
		actions = append(actions, fmt.Sprintf(
			"Добавлена новая характеристика товара с названием %s и со значением %s", parsed.Name, parsed.Value))
		toSave = append(toSave, parsed)
	}
	return toSave, toDelete, actions
}

func groupCharsByNm(chars []models.Characteristic) map[int][]models.Characteristic {
	grouped := make(map[int][]models.Characteristic)
	for _, char := range chars {
		grouped[char.ProductNmID] = append(grouped[char.ProductNmID], char)
	}
	return grouped
}
