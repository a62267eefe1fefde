package worker

// stock_watch.go: a ticker goroutine that refreshes the low-stock gauge and
// logs when the number of products at or below min_stock changes.

import (
	"context"
	"time"

	"motofix/internal/metrics"

	"github.com/rs/zerolog/log"
)

const stockWatchInterval = time.Minute

// LowStockCounter is satisfied by repository.ReportRepository.
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// StartStockWatch runs until ctx is cancelled.
func StartStockWatch(ctx context.Context, counter LowStockCounter) {
	go func() {
		ticker := time.NewTicker(stockWatchInterval)
		defer ticker.Stop()

		last := checkLowStock(ctx, counter, -1)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_watch: shutting down")
				return
			case <-ticker.C:
				last = checkLowStock(ctx, counter, last)
			}
		}
	}()
}

func checkLowStock(ctx context.Context, counter LowStockCounter, last int64) int64 {
	n, err := counter.CountLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock_watch: count failed")
		return last
	}
	metrics.SetLowStock(n)
	if n != last && n > 0 {
		log.Warn().Int64("products", n).Msg("stock_watch: products at or below minimum stock")
	}
	return n
}
