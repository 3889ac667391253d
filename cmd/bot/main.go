package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"HypeBot/internal/collector"
	"HypeBot/internal/config"
	"HypeBot/internal/logging"
	"HypeBot/internal/notifier"
	"HypeBot/internal/recorder"
	"HypeBot/internal/scanner"
	"HypeBot/internal/validator"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.New("info").Fatalf("load config: %v", err)
	}

	log := logging.New(cfg.LogLevel)
	log.Info("HypeBot starting...")

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	// Init fetcher
	fetcher := collector.NewHyperliquidFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	log.Infof("data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier and subscriber registry
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy, log)
	registry, err := notifier.NewRegistry(rec, log)
	if err != nil {
		log.Fatalf("load subscriber registry: %v", err)
	}
	log.Infof("subscriber registry loaded: %d chats", registry.Count())

	// Init AI validator
	var val validator.Validator
	if cfg.AI.APIKey != "" {
		val = validator.NewGeminiValidator(cfg.AI.APIKey, cfg.AI.Model, cfg.Proxy, log)
	} else {
		val = validator.NoopValidator{}
		log.Warn("GEMINI_API_KEY not set, AI validation disabled")
	}
	log.Infof("AI validator: %s", val.Name())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional live price feed
	var feed *collector.PriceFeed
	if cfg.Scan.LivePriceEnabled {
		feed = collector.NewPriceFeed(cfg.DataSource.WSURL, log)
		go feed.Run(ctx)
	}

	// Init scanner
	sc := scanner.NewScanner(ctx, fetcher, feed, val, tn, registry, rec, scanner.Options{
		Symbols:         cfg.DataSource.Symbols,
		Interval:        cfg.DataSource.Interval,
		CandleLimit:     cfg.DataSource.CandleLimit,
		ZigZagDeviation: cfg.Scan.ZigZagDeviation,
	}, log)
	if err := sc.Register(cfg.Scan.Cron); err != nil {
		log.Fatalf("register scan task: %v", err)
	}
	sc.Start()
	defer sc.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sc.HandleCommand)
	log.Info("telegram polling started")

	log.Info("HypeBot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	log.Info("HypeBot stopped")
}
