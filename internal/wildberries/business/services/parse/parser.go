package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"gomonitor_api/internal/wildberries/business/dto/responses"
	"gomonitor_api/internal/wildberries/business/services/route"
	"gomonitor_api/metrics"
	"gomonitor_api/pkg/logger"
)

const (
	// Удаленный источник медленный, таймаут намеренно длинный.
	RequestTimeout = 500 * time.Second
	// Верхняя граница одновременных запросов за карточками.
	FetchWorkerCount = 100
	// Запросов в секунду к публичным эндпоинтам карточек.
	FetchRequestLimit = 50
)

const detailURL = "https://card.wb.ru/cards/detail?spp=27&regions=80,64,38,4,83,33,68,70,69,30,86,75,40,1,22,66,31,48,110,71&pricemarginCoeff=1.0&reg=1&appType=1&emp=0&locale=ru&lang=ru&curr=rub&couponsGeo=12,3,18,15,21&sppFixGeo=4&dest=-455203&nm=%d"

// ProductSnapshot — сырые документы одной карточки на момент запроса.
type ProductSnapshot struct {
	NmID   int
	Card   responses.CardResponse
	Detail responses.DetailProduct
}

// SnapshotService загружает карточки ограниченным пулом воркеров.
// Состояние между вызовами не хранится.
type SnapshotService struct {
	client  *http.Client
	limiter *rate.Limiter
	log     logger.Logger

	// Подменяются в тестах, по умолчанию — боевые адреса.
	CardURL   func(nmID int) string
	DetailURL func(nmID int) string
}

func NewSnapshotService(writer io.Writer) *SnapshotService {
	return &SnapshotService{
		client:  &http.Client{Timeout: RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(FetchRequestLimit), FetchRequestLimit),
		log:     logger.NewLogger(writer, "[SnapshotService]"),
		CardURL: route.CardURL,
		DetailURL: func(nmID int) string {
			return fmt.Sprintf(detailURL, nmID)
		},
	}
}

// GetProductData забирает card и detail документы одного артикула.
// Любой сбой (сеть, не-200, битое тело) — ошибка всего элемента.
func (s *SnapshotService) GetProductData(ctx context.Context, nmID int) (*ProductSnapshot, error) {
	snapshot := &ProductSnapshot{NmID: nmID}

	if err := s.getJSON(ctx, s.CardURL(nmID), &snapshot.Card); err != nil {
		return nil, fmt.Errorf("card request for nm %d: %w", nmID, err)
	}

	var detail responses.DetailResponse
	if err := s.getJSON(ctx, s.DetailURL(nmID), &detail); err != nil {
		return nil, fmt.Errorf("detail request for nm %d: %w", nmID, err)
	}
	if len(detail.Data.Products) > 0 {
		snapshot.Detail = detail.Data.Products[0]
	}

	return snapshot, nil
}

// GetDetailByNms загружает карточки для набора артикулов. Ошибки отдельных
// элементов отбрасываются, результат может быть строгим подмножеством входа.
func (s *SnapshotService) GetDetailByNms(ctx context.Context, nms []int) ([]ProductSnapshot, *metrics.FetchMetrics) {
	fetchMetrics := &metrics.FetchMetrics{}
	results := make([]*ProductSnapshot, len(nms))

	sem := make(chan struct{}, FetchWorkerCount)
	var wg sync.WaitGroup
	for i, nm := range nms {
		wg.Add(1)
		go func(i, nm int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := s.limiter.Wait(ctx); err != nil {
				fetchMetrics.ErroredCount.Add(1)
				return
			}

			snapshot, err := s.GetProductData(ctx, nm)
			if err != nil {
				s.log.Log("skipping nm %d: %s", nm, err)
				fetchMetrics.ErroredCount.Add(1)
				return
			}
			results[i] = snapshot
			fetchMetrics.ProcessedCount.Add(1)
		}(i, nm)
	}
	wg.Wait()

	snapshots := make([]ProductSnapshot, 0, len(nms))
	for _, result := range results {
		if result != nil {
			snapshots = append(snapshots, *result)
		}
	}
	s.log.Log("fetched %d of %d snapshots (%d errored)",
		len(snapshots), len(nms), fetchMetrics.ErroredCount.Load())
	return snapshots, fetchMetrics
}

func (s *SnapshotService) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
