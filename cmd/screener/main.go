package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheelscreener/screener/internal/analyze"
	"github.com/wheelscreener/screener/internal/api/yahoo"
	"github.com/wheelscreener/screener/internal/config"
	"github.com/wheelscreener/screener/internal/notifier"
	"github.com/wheelscreener/screener/internal/prefilter"
	"github.com/wheelscreener/screener/internal/recorder"
	"github.com/wheelscreener/screener/internal/report"
	"github.com/wheelscreener/screener/internal/universe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tickers, err := universe.Load(cfg.TickersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ticker universe")
	}
	log.Info().Int("tickers", len(tickers)).Str("mode", string(cfg.Mode)).Msg("Starting screener run")

	client := yahoo.NewClient(yahoo.ClientOptions{
		QuoteURL:         cfg.QuoteURL,
		HistURL:          cfg.HistURL,
		RequestTimeout:   cfg.RequestTimeout,
		MaxRateLimitWait: cfg.MaxRateLimitWait,
	})

	log.Info().Float64("price_limit", cfg.PriceLimit).Msg("Phase 1: price pre-filter")
	filter := prefilter.New(client, cfg.BatchSize, cfg.BatchPause)
	candidates := filter.Run(ctx, tickers, cfg.PriceLimit)

	log.Info().Int("candidates", len(candidates)).Msg("Phase 2: indicator analysis")
	engine := analyze.NewEngine(client, analyze.Options{
		HistDays:      cfg.HistDays,
		MinBars:       cfg.MinBars,
		Mode:          cfg.Mode,
		ReferenceDate: cfg.ReferenceDate,
		Concurrency:   cfg.Concurrency,
	})
	records := engine.Analyze(ctx, candidates)

	log.Info().Int("records", len(records)).Msg("Phase 3: report")
	report.Sort(records)
	if err := report.Render(os.Stdout, records); err != nil {
		log.Error().Err(err).Msg("Failed to render report")
	}

	snap := report.BuildSnapshot(len(tickers), len(candidates), records, time.Now())
	if err := report.WriteSnapshot(cfg.ResultsFile, snap); err != nil {
		log.Error().Err(err).Msg("Failed to persist snapshot")
	} else {
		log.Info().Str("file", cfg.ResultsFile).Msg("Snapshot persisted")
	}

	if cfg.PostgresDSN != "" {
		rec, err := recorder.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect recorder, run not recorded")
		} else {
			if err := rec.SaveRun(ctx, snap); err != nil {
				log.Warn().Err(err).Msg("Failed to record run")
			}
			rec.Close()
		}
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create telegram notifier")
		} else if err := tg.NotifyRun(snap); err != nil {
			log.Warn().Err(err).Msg("Failed to send run summary")
		}
	}
}

func setupLogger(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
