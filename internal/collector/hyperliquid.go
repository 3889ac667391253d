package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"HypeBot/internal/model"
)

// HyperliquidFetcher implements Fetcher using the Hyperliquid info API.
type HyperliquidFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHyperliquidFetcher creates a new fetcher with optional proxy support.
func NewHyperliquidFetcher(baseURL, proxyURL string) *HyperliquidFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HyperliquidFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HyperliquidFetcher) Name() string { return "hyperliquid" }

// hlBar is the candleSnapshot wire shape: millisecond start time plus
// string-encoded prices and volume.
type hlBar struct {
	T int64  `json:"t"`
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
	V string `json:"v"`
}

type candleSnapshotReq struct {
	Type string `json:"type"`
	Req  struct {
		Coin      string `json:"coin"`
		Interval  string `json:"interval"`
		StartTime int64  `json:"startTime"`
		EndTime   int64  `json:"endTime"`
	} `json:"req"`
}

// FetchCandles loads up to limit recent OHLCV bars for the symbol. An empty
// slice with nil error means the exchange has no data for the request.
func (f *HyperliquidFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	endTime := time.Now().UnixMilli()
	startTime := endTime - int64(limit)*intervalMillis(interval)

	reqBody := candleSnapshotReq{Type: "candleSnapshot"}
	reqBody.Req.Coin = symbol
	reqBody.Req.Interval = interval
	reqBody.Req.StartTime = startTime
	reqBody.Req.EndTime = endTime

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal candle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/info", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch candles: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []hlBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	candles := make([]model.Candle, 0, len(raw))
	for _, b := range raw {
		c, err := b.toCandle()
		if err != nil {
			return nil, fmt.Errorf("parse candle at t=%d: %w", b.T, err)
		}
		candles = append(candles, c)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime.Before(candles[j].OpenTime) })
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func (b hlBar) toCandle() (model.Candle, error) {
	var c model.Candle
	var err error
	if c.Open, err = strconv.ParseFloat(b.O, 64); err != nil {
		return c, fmt.Errorf("open %q: %w", b.O, err)
	}
	if c.High, err = strconv.ParseFloat(b.H, 64); err != nil {
		return c, fmt.Errorf("high %q: %w", b.H, err)
	}
	if c.Low, err = strconv.ParseFloat(b.L, 64); err != nil {
		return c, fmt.Errorf("low %q: %w", b.L, err)
	}
	if c.Close, err = strconv.ParseFloat(b.C, 64); err != nil {
		return c, fmt.Errorf("close %q: %w", b.C, err)
	}
	if c.Volume, err = strconv.ParseFloat(b.V, 64); err != nil {
		return c, fmt.Errorf("volume %q: %w", b.V, err)
	}
	c.OpenTime = time.UnixMilli(b.T).UTC()
	return c, nil
}

// intervalMillis converts an exchange interval string to milliseconds.
// Unknown intervals fall back to one hour.
func intervalMillis(interval string) int64 {
	if strings.HasSuffix(interval, "d") {
		if n, err := strconv.Atoi(strings.TrimSuffix(interval, "d")); err == nil {
			return int64(n) * 24 * time.Hour.Milliseconds()
		}
	}
	if d, err := time.ParseDuration(interval); err == nil {
		return d.Milliseconds()
	}
	return time.Hour.Milliseconds()
}
