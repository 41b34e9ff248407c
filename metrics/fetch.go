package metrics

import "sync/atomic"

// FetchMetrics — счетчики одного прогона загрузки карточек.
type FetchMetrics struct {
	ProcessedCount atomic.Int32
	ErroredCount   atomic.Int32
}
