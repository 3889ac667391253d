package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"HypeBot/internal/model"
)

// Number of trailing candles and pivots included in the prompt.
const (
	promptCandles = 40
	promptPivots  = 5
)

// GeminiValidator confirms signals through the Gemini generateContent REST
// API in JSON mode.
type GeminiValidator struct {
	APIKey string
	Model  string
	Client *http.Client

	log *logrus.Logger
}

// NewGeminiValidator creates a validator with optional proxy support.
func NewGeminiValidator(apiKey, modelName, proxyURL string, log *logrus.Logger) *GeminiValidator {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &GeminiValidator{
		APIKey: apiKey,
		Model:  modelName,
		Client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		log: log,
	}
}

func (g *GeminiValidator) Name() string { return "gemini" }

type geminiRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiVerdict struct {
	Confirmed  bool   `json:"confirmed"`
	Confidence int    `json:"confidence"`
	Comment    string `json:"comment"`
}

// Validate sends market context plus the detected setup and parses the
// JSON verdict. Transport or parse failures degrade to an unconfirmed
// verdict with a nil error: the stage is advisory and must never veto by
// accident of infrastructure.
func (g *GeminiValidator) Validate(ctx context.Context, symbol, timeframe string, sig *model.SetupSignal,
	rows []model.IndicatorRow, pivots []model.Pivot) (*Verdict, error) {

	prompt := g.buildPrompt(symbol, timeframe, sig, rows, pivots)

	var req geminiRequest
	req.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []struct {
		Text string `json:"text"`
	}{{Text: prompt}}
	req.GenerationConfig.Temperature = 0.2
	req.GenerationConfig.ResponseMimeType = "application/json"

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	apiURL := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.Model, g.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		g.log.WithError(err).Warn("gemini request failed, treating as unconfirmed")
		return &Verdict{Confirmed: false, Confidence: 0, Comment: "validator unavailable"}, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		g.log.Warnf("gemini status %d: %s", resp.StatusCode, string(body))
		return &Verdict{Confirmed: false, Confidence: 0, Comment: "validator unavailable"}, nil
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		g.log.WithError(err).Warn("decode gemini response")
		return &Verdict{Confirmed: false, Confidence: 0, Comment: "unreadable verdict"}, nil
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return &Verdict{Confirmed: false, Confidence: 0, Comment: "empty verdict"}, nil
	}

	var v geminiVerdict
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &v); err != nil {
		g.log.WithError(err).Warn("parse gemini verdict JSON")
		return &Verdict{Confirmed: false, Confidence: 0, Comment: "unreadable verdict"}, nil
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 10 {
		v.Confidence = 10
	}
	return &Verdict{Confirmed: v.Confirmed, Confidence: v.Confidence, Comment: v.Comment}, nil
}

func (g *GeminiValidator) buildPrompt(symbol, timeframe string, sig *model.SetupSignal,
	rows []model.IndicatorRow, pivots []model.Pivot) string {

	last := rows[len(rows)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert crypto trader reviewing an algorithmic trade setup.\n\n")
	fmt.Fprintf(&b, "Symbol: %s (%s timeframe)\n", symbol, timeframe)
	fmt.Fprintf(&b, "Detected setup: %s %s at %.6g, stop-loss %.6g, take-profit %.6g, candle time %s\n\n",
		sig.Direction, sig.Family, sig.ReferencePrice, sig.StopLoss, sig.TakeProfit,
		sig.SignalTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Current price: %.6g\nRSI: %.2f\nVWAP: %.6g\nEMA fast/slow: %.6g / %.6g\n\n",
		last.Close, last.RSI, last.VWAP, last.EMAFast, last.EMASlow)

	b.WriteString("Recent candles (time,open,high,low,close,volume,rsi,vwap):\n")
	start := len(rows) - promptCandles
	if start < 0 {
		start = 0
	}
	for _, r := range rows[start:] {
		fmt.Fprintf(&b, "%s,%.6g,%.6g,%.6g,%.6g,%.6g,%.2f,%.6g\n",
			r.OpenTime.UTC().Format("2006-01-02T15:04"),
			r.Open, r.High, r.Low, r.Close, r.Volume, r.RSI, r.VWAP)
	}

	b.WriteString("\nRecent ZigZag pivots (local extrema, last one tentative):\n")
	pstart := len(pivots) - promptPivots
	if pstart < 0 {
		pstart = 0
	}
	for _, p := range pivots[pstart:] {
		fmt.Fprintf(&b, "%s %s %.6g\n", p.Time.UTC().Format("2006-01-02T15:04"), p.Kind, p.Price)
	}

	b.WriteString(`
Task: judge whether this setup is a high-probability trade in the context of
wave structure (Elliott impulse/correction) and the pivot sequence.

Return ONLY valid JSON:
{"confirmed": <bool>, "confidence": <int 0-10>, "comment": "<max 2 sentences>"}

Set confirmed=false when confidence is below 7.
`)
	return b.String()
}
