package collector

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// PriceFeed maintains live mid prices from the Hyperliquid websocket
// (allMids stream). It is advisory: the scan pipeline never depends on it,
// it only enriches reports and the /price command.
type PriceFeed struct {
	url string
	log *logrus.Logger

	mu   sync.RWMutex
	mids map[string]float64
}

// NewPriceFeed creates a feed for the given websocket URL.
func NewPriceFeed(url string, log *logrus.Logger) *PriceFeed {
	return &PriceFeed{
		url:  url,
		log:  log,
		mids: make(map[string]float64),
	}
}

// Mid returns the last seen mid price for a symbol.
func (p *PriceFeed) Mid(symbol string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.mids[symbol]
	return v, ok
}

// Run connects and consumes the stream until ctx is cancelled, reconnecting
// with backoff on any failure.
func (p *PriceFeed) Run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := p.consume(ctx); err != nil && ctx.Err() == nil {
			p.log.WithError(err).Warnf("price feed disconnected, reconnecting in %v", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
		} else {
			backoff = time.Second
		}
	}
}

type wsRequest struct {
	Method       string          `json:"method"`
	Subscription *wsSubscription `json:"subscription,omitempty"`
}

type wsSubscription struct {
	Type string `json:"type"`
}

type wsMessage struct {
	Channel string `json:"channel"`
	Data    struct {
		Mids map[string]string `json:"mids"`
	} `json:"data"`
}

func (p *PriceFeed) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	var writeMu sync.Mutex
	sub := wsRequest{Method: "subscribe", Subscription: &wsSubscription{Type: "allMids"}}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	p.log.Infof("price feed connected: %s", p.url)

	// Hyperliquid drops idle connections; keep it alive with pings.
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-pingDone:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteJSON(wsRequest{Method: "ping"})
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Channel != "allMids" || len(msg.Data.Mids) == 0 {
			continue
		}
		p.mu.Lock()
		for sym, s := range msg.Data.Mids {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				p.mids[sym] = v
			}
		}
		p.mu.Unlock()
	}
}
