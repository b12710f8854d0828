package prefilter

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheelscreener/screener/internal/api/yahoo"
	"github.com/wheelscreener/screener/internal/models"
)

// QuoteProvider supplies batch spot quotes.
type QuoteProvider interface {
	BatchQuotes(ctx context.Context, symbols []string) ([]yahoo.QuoteItem, error)
}

// Filter screens the ticker universe by current price before the expensive
// indicator pass runs.
type Filter struct {
	provider   QuoteProvider
	batchSize  int
	batchPause time.Duration
	logger     zerolog.Logger
}

// New creates a price pre-filter. batchPause is the courtesy delay between
// batch requests.
func New(provider QuoteProvider, batchSize int, batchPause time.Duration) *Filter {
	return &Filter{
		provider:   provider,
		batchSize:  batchSize,
		batchPause: batchPause,
		logger:     log.With().Str("component", "prefilter").Logger(),
	}
}

// Run queries quotes for all tickers in fixed-size batches and keeps those
// with a price strictly below priceLimit, preserving universe order. Items
// without a price are skipped; a failed batch is logged and skipped.
func (f *Filter) Run(ctx context.Context, tickers []string, priceLimit float64) []models.Quote {
	var candidates []models.Quote

	for i := 0; i < len(tickers); i += f.batchSize {
		end := i + f.batchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		batch := tickers[i:end]

		items, err := f.provider.BatchQuotes(ctx, batch)
		if err != nil {
			f.logger.Warn().Err(err).Int("batch_start", i).Msg("Batch quote request failed, skipping batch")
		} else {
			for _, item := range items {
				if item.RegularMarketPrice == nil {
					continue
				}
				if *item.RegularMarketPrice < priceLimit {
					candidates = append(candidates, models.Quote{
						Symbol: item.Symbol,
						Price:  *item.RegularMarketPrice,
						Name:   item.ShortName,
					})
				}
			}
		}

		if end < len(tickers) && f.batchPause > 0 {
			select {
			case <-ctx.Done():
				return candidates
			case <-time.After(f.batchPause):
			}
		}
	}

	f.logger.Info().
		Int("universe", len(tickers)).
		Int("candidates", len(candidates)).
		Msg("Pre-filter complete")
	return candidates
}
