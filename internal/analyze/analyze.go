package analyze

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheelscreener/screener/internal/calculate"
	"github.com/wheelscreener/screener/internal/models"
)

const (
	emaSpan        = 50
	rsiPeriod      = 14
	adxPeriod      = 14
	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9
	rviStdWindow   = 10
	rviSmooth      = 14
)

// HistoryProvider supplies the daily OHLC series for one ticker.
type HistoryProvider interface {
	History(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
}

// Options configures the indicator engine.
type Options struct {
	HistDays int
	MinBars  int
	Mode     models.Mode
	// ReferenceDate pins the end of the history window; zero means "now".
	ReferenceDate time.Time
	// Concurrency bounds how many tickers are analyzed at once. Values
	// below 1 mean sequential.
	Concurrency int
}

// Engine runs the per-ticker indicator evaluation over the pre-filter
// survivors.
type Engine struct {
	provider HistoryProvider
	opts     Options
	logger   zerolog.Logger
}

// NewEngine creates an indicator engine.
func NewEngine(provider HistoryProvider, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{
		provider: provider,
		opts:     opts,
		logger:   log.With().Str("component", "analyze").Logger(),
	}
}

// Analyze fetches history for every candidate, computes the indicator
// snapshot and classifies it. Tickers with failed fetches, short series or
// two or more failed criteria produce no record. The returned order is the
// candidate order regardless of completion order, so reports are
// deterministic even when Concurrency > 1.
func (e *Engine) Analyze(ctx context.Context, candidates []models.Quote) []models.ResultRecord {
	end := e.opts.ReferenceDate
	if end.IsZero() {
		end = time.Now()
	}
	start := end.AddDate(0, 0, -e.opts.HistDays)

	type indexed struct {
		idx    int
		record models.ResultRecord
	}

	var (
		mu      sync.Mutex
		results []indexed
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, e.opts.Concurrency)

	for i, candidate := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, c models.Quote) {
			defer wg.Done()
			defer func() { <-sem }()

			e.logger.Info().
				Int("current", idx+1).
				Int("total", len(candidates)).
				Str("symbol", c.Symbol).
				Msg("Analyzing")

			record, ok := e.analyzeOne(ctx, c, start, end)
			if !ok {
				return
			}
			mu.Lock()
			results = append(results, indexed{idx: idx, record: record})
			mu.Unlock()
		}(i, candidate)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].idx < results[j].idx })

	records := make([]models.ResultRecord, 0, len(results))
	for _, r := range results {
		records = append(records, r.record)
	}

	e.logger.Info().
		Int("candidates", len(candidates)).
		Int("records", len(records)).
		Msg("Analysis complete")
	return records
}

// analyzeOne evaluates a single ticker. Any failure short of a programming
// error degrades to "no record"; it never aborts the batch.
func (e *Engine) analyzeOne(ctx context.Context, c models.Quote, start, end time.Time) (models.ResultRecord, bool) {
	bars, err := e.provider.History(ctx, c.Symbol, start, end)
	if err != nil {
		e.logger.Debug().Err(err).Str("symbol", c.Symbol).Msg("History fetch failed, skipping")
		return models.ResultRecord{}, false
	}

	bars = models.NormalizeBars(bars)
	if len(bars) < e.opts.MinBars {
		e.logger.Debug().
			Str("symbol", c.Symbol).
			Int("bars", len(bars)).
			Int("min", e.opts.MinBars).
			Msg("Insufficient history, skipping")
		return models.ResultRecord{}, false
	}

	closes := models.Closes(bars)
	price := closes[len(closes)-1]
	snap := Snapshot(bars)

	status, failed := Classify(e.opts.Mode, price, snap)
	if status == "" {
		return models.ResultRecord{}, false
	}

	record := models.ResultRecord{
		Symbol:     c.Symbol,
		Name:       c.Name,
		Price:      round2(price),
		EMA50:      round2(snap.EMA50),
		ADX:        round2(snap.ADX),
		RSI:        round2(snap.RSI),
		RVI:        round2(snap.RVI),
		MACD:       round2(snap.MACD),
		MACDSignal: round2(snap.MACDSignal),
		DiffPct:    round2((price - snap.EMA50) / snap.EMA50 * 100),
		Status:     status,
	}
	if status == models.StatusNear {
		record.FailedCriterion = failed[0]
	}
	return record, true
}

// Snapshot computes all indicators over the full bar sequence, retaining
// only the latest values (plus the RSI reading 3 sessions back).
func Snapshot(bars []models.Bar) models.IndicatorSnapshot {
	closes := models.Closes(bars)

	rsiSeries := calculate.RSISeries(closes, rsiPeriod)
	macd, signal := calculate.MACD(closes, macdFastSpan, macdSlowSpan, macdSignalSpan)

	snap := models.IndicatorSnapshot{
		EMA50:      calculate.EMA(closes, emaSpan),
		RSI:        rsiSeries[len(rsiSeries)-1],
		ADX:        calculate.ADX(bars, adxPeriod),
		MACD:       macd,
		MACDSignal: signal,
		RVI:        calculate.RVI(closes, rviStdWindow, rviSmooth),
	}
	if len(rsiSeries) >= 4 {
		snap.RSI3Ago = rsiSeries[len(rsiSeries)-4]
		snap.HasRSI3Ago = true
	}
	return snap
}

// round2 rounds to 2 decimal places; applied only when building output
// records so rounding error never compounds inside the smoothing math.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
