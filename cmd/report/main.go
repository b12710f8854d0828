package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheelscreener/screener/internal/config"
	"github.com/wheelscreener/screener/internal/report"
)

// Re-renders the persisted snapshot of the last run without contacting any
// provider. Sorting is re-applied from the record data, so the output is
// identical to the table printed at the end of the run.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg.LogLevel)

	snap, err := report.LoadSnapshot(cfg.ResultsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}

	log.Info().
		Time("run_at", snap.Timestamp).
		Int("passed", snap.PassedAllCriteria).
		Int("near_misses", snap.NearMisses).
		Msg("Loaded snapshot")

	records := snap.Results
	report.Sort(records)
	if err := report.Render(os.Stdout, records); err != nil {
		log.Fatal().Err(err).Msg("Failed to render report")
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
