package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBatchQuotes(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			{"symbol": "AAA", "shortName": "Alpha Inc", "regularMarketPrice": 50.5},
			{"symbol": "BBB", "shortName": "Beta Inc"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{QuoteURL: srv.URL, HistURL: srv.URL})

	items, err := client.BatchQuotes(context.Background(), []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("BatchQuotes: %v", err)
	}

	if gotQuery != "symbols=AAA%2CBBB&fields=symbol,shortName,regularMarketPrice" {
		t.Errorf("unexpected query: %s", gotQuery)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].RegularMarketPrice == nil || *items[0].RegularMarketPrice != 50.5 {
		t.Errorf("AAA price = %v, want 50.5", items[0].RegularMarketPrice)
	}
	if items[1].RegularMarketPrice != nil {
		t.Errorf("BBB has no quote, price should be nil, got %v", *items[1].RegularMarketPrice)
	}
}

func TestHistoryNormalizesMixedDates(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		// Epoch and ISO dates mixed, out of order.
		w.Write([]byte(`{"quotes": [
			{"date": "2024-03-06", "open": 2, "high": 3, "low": 1, "close": 2.5},
			{"date": 1709596800, "open": 1, "high": 2, "low": 0.5, "close": 1.5}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{QuoteURL: srv.URL, HistURL: srv.URL})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	bars, err := client.History(context.Background(), "AAA", from, to)
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	if gotQuery != "ticker=AAA&from=2024-01-01&to=2024-03-10" {
		t.Errorf("unexpected query: %s", gotQuery)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	// 1709596800 is 2024-03-05, so it must sort before the ISO 2024-03-06.
	if bars[0].Close != 1.5 || bars[1].Close != 2.5 {
		t.Errorf("bars not sorted ascending by date: %+v", bars)
	}
}

func TestHistoryProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{QuoteURL: srv.URL, HistURL: srv.URL})

	if _, err := client.History(context.Background(), "GONE", time.Now().AddDate(0, 0, -120), time.Now()); err == nil {
		t.Error("expected error for 404 response")
	}
}
