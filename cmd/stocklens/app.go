package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/recorder"
	"StockLens/internal/translate"
)

const dateLayout = "2006-01-02"

// app holds the components shared by the subcommands.
type app struct {
	Config    *config.Config
	Collector *collector.Collector
	Cache     cache.Cache
	Recorder  recorder.Recorder
}

func loadConfig() (*config.Config, error) {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *configPath != "" {
		cfgPath = *configPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newApp builds the fetcher stack, translator and recorder from the config.
// Optional backends that fail to start are replaced by their no-op versions.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "eodhd":
		fetcher = collector.NewEODHDFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "alpaca":
		fetcher = collector.NewAlpacaFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.APISecret, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var c cache.Cache = cache.NewMemoryCache()
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Printf("[WARN] init redis cache failed, using memory cache: %v", err)
		} else {
			c = rc
		}
	}
	fetcher = collector.NewCachingFetcher(fetcher, c, cfg.Cache.HistoryTTL, cfg.Cache.ProfileTTL)

	var tr translate.Translator = translate.Noop{}
	if cfg.Translate.Target != "" {
		if cfg.Translate.APIKey == "" {
			log.Printf("[WARN] translation to %s requested without GEMINI_API_KEY, showing original text", cfg.Translate.Target)
		} else if gt, err := translate.NewGeminiTranslator(ctx, cfg.Translate.APIKey, cfg.Translate.Model); err != nil {
			log.Printf("[WARN] init translator failed, showing original text: %v", err)
		} else {
			tr = gt
		}
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	switch {
	case cfg.Database.PostgresDSN != "":
		if pr, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN); err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
		} else {
			rec = pr
		}
	case cfg.Database.SQLitePath != "":
		if sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath); err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}

	col := collector.NewCollector(fetcher)
	col.Calculator = calculator.NewCalculator(cfg.Metrics.TradingDays, cfg.Metrics.Horizons)
	col.Translator = tr
	col.Target = cfg.Translate.Target
	col.Recorder = rec

	return &app{Config: cfg, Collector: col, Cache: c, Recorder: rec}, nil
}

func (a *app) Close() {
	if err := a.Recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
	if err := a.Cache.Close(); err != nil {
		log.Printf("[WARN] close cache: %v", err)
	}
}

// parseRange reads the -start and -end flags. Empty flags take the default
// range of collector.DefaultRange; the end date is exclusive.
func parseRange(start, end string, now time.Time) (time.Time, time.Time, error) {
	s, e := collector.DefaultRange(now)
	var err error
	if start != "" {
		if s, err = time.Parse(dateLayout, start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
	}
	if end == "" {
		return s, e, nil
	}
	e, err = time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return s, e, nil
}
