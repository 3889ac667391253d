package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"HypeBot/internal/model"
)

func snapshotServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/info" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req candleSnapshotReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Type != "candleSnapshot" {
			t.Errorf("request type = %q, want candleSnapshot", req.Type)
		}
		if req.Req.Coin == "" || req.Req.Interval == "" {
			t.Error("coin and interval must be set")
		}
		if req.Req.StartTime >= req.Req.EndTime {
			t.Errorf("bad time range: %d >= %d", req.Req.StartTime, req.Req.EndTime)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestFetchCandles_ParsesAndSorts(t *testing.T) {
	// Bars arrive out of order with string-encoded fields.
	srv := snapshotServer(t, `[
		{"t": 7200000, "o": "102", "h": "104", "l": "101", "c": "103", "v": "30"},
		{"t": 0,       "o": "100", "h": "102", "l": "99",  "c": "101", "v": "10"},
		{"t": 3600000, "o": "101", "h": "103", "l": "100", "c": "102", "v": "20"}
	]`)
	defer srv.Close()

	f := &HyperliquidFetcher{BaseURL: srv.URL, Client: srv.Client()}
	candles, err := f.FetchCandles(context.Background(), "ETH", "1h", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("got %d candles, want 3", len(candles))
	}
	if err := model.ValidateSeries(candles); err != nil {
		t.Fatalf("fetched series is malformed: %v", err)
	}
	if !candles[0].OpenTime.Equal(time.UnixMilli(0).UTC()) {
		t.Errorf("first candle at %v, want epoch", candles[0].OpenTime)
	}
	if candles[2].Close != 103 || candles[2].Volume != 30 {
		t.Errorf("last candle = %+v, want close 103 volume 30", candles[2])
	}
}

func TestFetchCandles_TrimsToLimit(t *testing.T) {
	srv := snapshotServer(t, `[
		{"t": 0,       "o": "100", "h": "102", "l": "99",  "c": "101", "v": "10"},
		{"t": 3600000, "o": "101", "h": "103", "l": "100", "c": "102", "v": "20"},
		{"t": 7200000, "o": "102", "h": "104", "l": "101", "c": "103", "v": "30"}
	]`)
	defer srv.Close()

	f := &HyperliquidFetcher{BaseURL: srv.URL, Client: srv.Client()}
	candles, err := f.FetchCandles(context.Background(), "BTC", "1h", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want the trailing 2", len(candles))
	}
	if candles[0].Close != 102 || candles[1].Close != 103 {
		t.Errorf("kept the wrong tail: %+v", candles)
	}
}

func TestFetchCandles_EmptyResponse(t *testing.T) {
	srv := snapshotServer(t, `[]`)
	defer srv.Close()

	f := &HyperliquidFetcher{BaseURL: srv.URL, Client: srv.Client()}
	candles, err := f.FetchCandles(context.Background(), "DOGE", "1h", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candles != nil {
		t.Fatalf("got %+v, want nil for an unknown symbol", candles)
	}
}

func TestFetchCandles_BadPrice(t *testing.T) {
	srv := snapshotServer(t, `[{"t": 0, "o": "abc", "h": "102", "l": "99", "c": "101", "v": "10"}]`)
	defer srv.Close()

	f := &HyperliquidFetcher{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := f.FetchCandles(context.Background(), "ETH", "1h", 10); err == nil {
		t.Fatal("expected an error for an unparseable price")
	}
}

func TestFetchCandles_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := &HyperliquidFetcher{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := f.FetchCandles(context.Background(), "ETH", "1h", 10); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestIntervalMillis(t *testing.T) {
	tests := []struct {
		interval string
		want     int64
	}{
		{"1m", 60_000},
		{"15m", 900_000},
		{"1h", 3_600_000},
		{"4h", 14_400_000},
		{"1d", 86_400_000},
		{"3d", 259_200_000},
		{"nonsense", 3_600_000}, // falls back to one hour
	}
	for _, tt := range tests {
		if got := intervalMillis(tt.interval); got != tt.want {
			t.Errorf("intervalMillis(%q) = %d, want %d", tt.interval, got, tt.want)
		}
	}
}

func TestGenerateCandles_WellFormed(t *testing.T) {
	candles := GenerateCandles(3000, 200)
	if len(candles) != 200 {
		t.Fatalf("got %d candles, want 200", len(candles))
	}
	if err := model.ValidateSeries(candles); err != nil {
		t.Fatalf("synthetic series is malformed: %v", err)
	}
}
