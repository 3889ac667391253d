package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"HypeBot/internal/collector"
	"HypeBot/internal/indicator"
	"HypeBot/internal/model"
	"HypeBot/internal/notifier"
	"HypeBot/internal/recorder"
	"HypeBot/internal/setup"
	"HypeBot/internal/validator"
)

// scanTimeout bounds one symbol's fetch-and-classify round trip.
const scanTimeout = 30 * time.Second

// signalKey identifies an emitted signal for dedupe: polling every 20
// seconds re-sees the same closed candle many times, and the same setup on
// the same candle must be broadcast only once.
type signalKey struct {
	family    model.SetupFamily
	direction model.Direction
	candleTS  int64
}

// Scanner drives the periodic per-symbol scan pipeline and handles
// Telegram commands. Each scan operates on an independently fetched series,
// so symbols need no coordination.
type Scanner struct {
	Cron      *cron.Cron
	Fetcher   collector.Fetcher
	Feed      *collector.PriceFeed // optional
	Validator validator.Validator
	Notifier  *notifier.TelegramNotifier
	Registry  *notifier.Registry
	Recorder  recorder.Recorder
	Ctx       context.Context

	log *logrus.Logger

	symbols   []string
	interval  string
	limit     int
	deviation float64

	mu       sync.Mutex
	inFlight map[string]bool
	lastSent map[string]signalKey
}

// Options carries the scan parameters from config.
type Options struct {
	Symbols         []string
	Interval        string
	CandleLimit     int
	ZigZagDeviation float64
}

// NewScanner creates a Scanner.
func NewScanner(ctx context.Context, f collector.Fetcher, feed *collector.PriceFeed,
	v validator.Validator, tn *notifier.TelegramNotifier, reg *notifier.Registry,
	rec recorder.Recorder, opts Options, log *logrus.Logger) *Scanner {
	return &Scanner{
		Cron:      cron.New(cron.WithSeconds()),
		Fetcher:   f,
		Feed:      feed,
		Validator: v,
		Notifier:  tn,
		Registry:  reg,
		Recorder:  rec,
		Ctx:       ctx,
		log:       log,
		symbols:   opts.Symbols,
		interval:  opts.Interval,
		limit:     opts.CandleLimit,
		deviation: opts.ZigZagDeviation,
		inFlight:  make(map[string]bool),
		lastSent:  make(map[string]signalKey),
	}
}

// Register adds the scan task on the given cron spec.
func (s *Scanner) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanAll); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scanner) Start() {
	s.Cron.Start()
	s.log.Infof("scanner started: %s every scan tick (%s candles)", strings.Join(s.symbols, ","), s.interval)
}

// Stop stops the cron scheduler gracefully.
func (s *Scanner) Stop() {
	s.Cron.Stop()
	s.log.Info("scanner stopped")
}

// scanAll launches one goroutine per symbol. A symbol whose previous scan
// is still running is skipped this tick.
func (s *Scanner) scanAll() {
	for _, sym := range s.symbols {
		s.mu.Lock()
		if s.inFlight[sym] {
			s.mu.Unlock()
			continue
		}
		s.inFlight[sym] = true
		s.mu.Unlock()

		go func(sym string) {
			defer func() {
				s.mu.Lock()
				s.inFlight[sym] = false
				s.mu.Unlock()
			}()
			s.scanSymbol(sym)
		}(sym)
	}
}

func (s *Scanner) scanSymbol(symbol string) {
	ctx, cancel := context.WithTimeout(s.Ctx, scanTimeout)
	defer cancel()

	candles, err := s.Fetcher.FetchCandles(ctx, symbol, s.interval, s.limit)
	if err != nil {
		s.log.WithError(err).Warnf("fetch %s failed", symbol)
		return
	}
	if len(candles) == 0 {
		s.log.Debugf("no data for %s", symbol)
		return
	}

	sig, rows, err := setup.Find(candles)
	if err != nil {
		s.log.WithError(err).Errorf("classify %s: bad series from source", symbol)
		return
	}
	if sig == nil {
		return
	}

	key := signalKey{family: sig.Family, direction: sig.Direction, candleTS: sig.SignalTime.Unix()}
	s.mu.Lock()
	if s.lastSent[symbol] == key {
		s.mu.Unlock()
		return
	}
	s.lastSent[symbol] = key
	s.mu.Unlock()

	s.log.Infof("%s: %s %s setup at %.6g", symbol, sig.Direction, sig.Family, sig.ReferencePrice)

	pivots, err := indicator.ExtractPivots(candles, s.deviation)
	if err != nil {
		// Cannot happen for a series Find already accepted.
		s.log.WithError(err).Errorf("extract pivots %s", symbol)
	}

	verdict, err := s.Validator.Validate(ctx, symbol, s.interval, sig, rows, pivots)
	if err != nil {
		s.log.WithError(err).Warnf("AI validation for %s failed", symbol)
	}

	rec := &recorder.SignalRecord{
		Symbol:       symbol,
		Interval:     s.interval,
		Signal:       sig,
		AIConfidence: -1,
	}
	if verdict != nil {
		rec.AIConfirmed = verdict.Confirmed
		rec.AIConfidence = verdict.Confidence
		rec.AIComment = verdict.Comment
	}
	if err := s.Recorder.RecordSignal(rec); err != nil {
		s.log.WithError(err).Errorf("record signal for %s", symbol)
	}

	report := notifier.FormatSignalReport(symbol, s.interval, sig, rows[len(rows)-2], verdict)
	s.Notifier.Broadcast(s.Ctx, s.Registry.List(), report)
}
