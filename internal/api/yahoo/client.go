package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/wheelscreener/screener/internal/platform/http"
	"github.com/wheelscreener/screener/internal/models"
)

// Client talks to the quote proxy: one endpoint for batch spot quotes,
// one for historical daily OHLC series.
type Client struct {
	quoteURL   string
	histURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Client.
type ClientOptions struct {
	QuoteURL         string
	HistURL          string
	RequestTimeout   time.Duration
	RequestsPerSec   int
	MaxRateLimitWait time.Duration
}

// NewClient creates a new quote provider client.
func NewClient(options ClientOptions) *Client {
	return &Client{
		quoteURL: options.QuoteURL,
		histURL:  options.HistURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:          options.RequestTimeout,
			RequestsPerSec:   options.RequestsPerSec,
			MaxRateLimitWait: options.MaxRateLimitWait,
		}),
		logger: log.With().Str("component", "yahoo_client").Logger(),
	}
}

// QuoteItem is one entry of a batch quote response. Price is nil when the
// provider has no quote for the symbol in this batch.
type QuoteItem struct {
	Symbol             string   `json:"symbol"`
	ShortName          string   `json:"shortName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

// BatchQuotes fetches spot quotes for up to a batch worth of symbols.
func (c *Client) BatchQuotes(ctx context.Context, symbols []string) ([]QuoteItem, error) {
	reqURL := fmt.Sprintf(
		"%s?symbols=%s&fields=symbol,shortName,regularMarketPrice",
		c.quoteURL,
		url.QueryEscape(strings.Join(symbols, ",")),
	)

	c.logger.Debug().Int("symbols", len(symbols)).Msg("Fetching batch quotes")

	var items []QuoteItem
	if err := c.httpClient.GetJSON(ctx, reqURL, &items); err != nil {
		return nil, fmt.Errorf("batch quotes: %w", err)
	}
	return items, nil
}

type historyResponse struct {
	Quotes []models.Bar `json:"quotes"`
}

// History fetches the daily OHLC series for one ticker over [from, to].
// Bars come back unsorted and with provider-version-dependent date
// encodings; they are normalized before being returned.
func (c *Client) History(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	reqURL := fmt.Sprintf(
		"%s?ticker=%s&from=%s&to=%s",
		c.histURL,
		url.QueryEscape(ticker),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)

	c.logger.Debug().Str("ticker", ticker).Msg("Fetching history")

	var data historyResponse
	if err := c.httpClient.GetJSON(ctx, reqURL, &data); err != nil {
		return nil, fmt.Errorf("history for %s: %w", ticker, err)
	}

	bars := models.NormalizeBars(data.Quotes)
	c.logger.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("Fetched history")
	return bars, nil
}
