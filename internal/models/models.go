package models

import (
	"time"
)

// Mode selects which criteria set the screen evaluates.
type Mode string

const (
	ModeBullishPullback Mode = "BULLISH_PULLBACK"
	ModeBearishBounce   Mode = "BEARISH_BOUNCE"
)

// Status classifies a screened ticker.
type Status string

const (
	StatusPass Status = "PASS"
	StatusNear Status = "NEAR"
)

// Quote is a candidate that survived the price pre-filter.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Name   string  `json:"name"`
}

// Bar is one daily OHLC session.
type Bar struct {
	Date  FlexTime `json:"date"`
	Open  float64  `json:"open"`
	High  float64  `json:"high"`
	Low   float64  `json:"low"`
	Close float64  `json:"close"`
}

// IndicatorSnapshot holds the latest indicator values for one ticker.
// Values are unrounded; rounding happens only when the ResultRecord is built.
type IndicatorSnapshot struct {
	EMA50      float64
	RSI        float64
	RSI3Ago    float64
	HasRSI3Ago bool
	ADX        float64
	MACD       float64
	MACDSignal float64
	RVI        float64
}

// ResultRecord is the final per-ticker outcome of the screen.
// FailedCriterion is set exactly when Status is NEAR.
type ResultRecord struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	EMA50           float64 `json:"ema50"`
	ADX             float64 `json:"adx"`
	RSI             float64 `json:"rsi"`
	RVI             float64 `json:"rvi"`
	MACD            float64 `json:"macd"`
	MACDSignal      float64 `json:"macd_signal"`
	DiffPct         float64 `json:"diff_pct"`
	Status          Status  `json:"status"`
	FailedCriterion string  `json:"failed_criterion,omitempty"`
}

// RunSnapshot is the persisted artifact of one screening run.
type RunSnapshot struct {
	Timestamp                time.Time      `json:"timestamp"`
	TotalTickersAnalyzed     int            `json:"total_tickers_analyzed"`
	CandidatesAfterPrefilter int            `json:"candidates_after_prefilter"`
	PassedAllCriteria        int            `json:"passed_all_criteria"`
	NearMisses               int            `json:"near_misses"`
	Results                  []ResultRecord `json:"results"`
}

// ParseMode maps a config string to a Mode, defaulting to the bullish screen.
func ParseMode(s string) Mode {
	switch s {
	case "bearish", "BEARISH_BOUNCE":
		return ModeBearishBounce
	default:
		return ModeBullishPullback
	}
}
