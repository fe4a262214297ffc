package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"FlowState/internal/cache"
	"FlowState/internal/collector"
	"FlowState/internal/config"
	"FlowState/internal/model"
	"FlowState/internal/notifier"
	"FlowState/internal/recorder"
	"FlowState/internal/regime"
	"FlowState/internal/scheduler"
	"FlowState/internal/server"
)

func main() {
	// .env is for local development; deployed environments set real vars.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	log.Info().Msg("FlowState starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if cfg.Sources.FREDAPIKey == "" {
		log.Warn().Msg("FRED_API_KEY not set, FRED series will be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Series cache: Redis when configured and reachable, in-process otherwise.
	var seriesCache cache.Cache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unreachable, using in-memory cache")
			seriesCache = cache.NewMemoryCache()
		} else {
			seriesCache = rc
			defer rc.Close()
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("redis cache connected")
		}
	} else {
		seriesCache = cache.NewMemoryCache()
	}

	col := buildCollector(cfg, seriesCache)

	store := regime.NewFileStore(cfg.Regime.StateFile)
	manager := regime.NewManager(regime.Config{
		AggressiveThreshold:     cfg.Regime.AggressiveThreshold,
		DefensiveThreshold:      cfg.Regime.DefensiveThreshold,
		ConsecutiveDaysRequired: cfg.Regime.ConsecutiveDaysRequired,
		MarginOverride:          cfg.Regime.MarginOverride,
	}, store)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var dn *notifier.DiscordNotifier
	if cfg.Discord.WebhookURL != "" {
		dn = notifier.NewDiscordNotifier(cfg.Discord.WebhookURL)
	} else {
		log.Warn().Msg("DISCORD_WEBHOOK_URL not set, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, col, manager, rec, dn, cfg)
	if err := sched.RegisterAll(); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg, sched, seriesCache)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing evaluation cycle now")
		go sched.RunNow()
	}

	log.Info().Msg("FlowState is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	log.Info().Msg("FlowState stopped")
}

// buildCollector wires one source per metric, each wrapped with a circuit
// breaker and the series cache.
func buildCollector(cfg *config.Config, c cache.Cache) *collector.Collector {
	fred := collector.NewFREDClient(cfg.Sources.FREDBaseURL, cfg.Sources.FREDAPIKey)
	lookback := cfg.Sources.LookbackDays
	btcDays := cfg.Windows.MADays + 30

	wrap := func(s collector.Source) collector.Source {
		return collector.WithCache(collector.WithBreaker(s), c, cfg.TTLFor(s.Metric()))
	}

	return collector.New(
		wrap(collector.NewFREDSource(fred, model.MetricWALCL, collector.FREDSeriesWALCL, lookback)),
		wrap(collector.NewFREDSource(fred, model.MetricRRP, collector.FREDSeriesRRP, lookback)),
		wrap(collector.NewFREDSource(fred, model.MetricHYSpread, collector.FREDSeriesHYSpread, lookback)),
		wrap(collector.NewFREDSource(fred, model.MetricDXY, collector.FREDSeriesDXY, lookback)),
		wrap(collector.NewCoinGeckoSource(cfg.Sources.CoinGeckoBaseURL, cfg.Sources.CoinGeckoAPIKey, btcDays)),
		wrap(collector.NewDefiLlamaSource(cfg.Sources.DefiLlamaBaseURL)),
	)
}
