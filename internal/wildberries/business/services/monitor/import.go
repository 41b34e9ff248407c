package monitor

import (
	"context"
	"fmt"

	"gomonitor_api/internal/wildberries/business/services/parse"
)

// ImportProducts — путь создания товаров: загружает карточки по списку
// артикулов и сохраняет их за магазином. Парсинг входных файлов остается
// на вызывающей стороне, сюда приходит уже готовый список nm_id.
func (s *Service) ImportProducts(ctx context.Context, shopID int, nmIDs []int) error {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		return fmt.Errorf("fetching shop %d: %w", shopID, err)
	}
	if shop == nil || !shop.IsActive {
		return fmt.Errorf("shop %d is not active", shopID)
	}

	snapshots, fetchMetrics := s.snapshots.GetDetailByNms(ctx, nmIDs)
	products, chars := parse.PrepareProducts(snapshots, shop.ID, shop.Supplier)
	s.log.Log("import for shop %d: %d of %d products fetched (%d errored)",
		shop.ID, len(products), len(nmIDs), fetchMetrics.ErroredCount.Load())

	if len(products) > 0 {
		if err := s.products.SaveMany(products); err != nil {
			return fmt.Errorf("saving imported products: %w", err)
		}
	}
	if len(chars) > 0 {
		if err := s.chars.SaveMany(chars); err != nil {
			return fmt.Errorf("saving imported characteristics: %w", err)
		}
	}
	return nil
}
