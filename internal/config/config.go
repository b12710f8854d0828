package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/wheelscreener/screener/internal/models"
)

// Config holds all application configuration. It is built once at startup
// and passed into each component at construction; nothing reads the
// environment after Load returns.
type Config struct {
	QuoteURL    string
	HistURL     string
	TickersFile string

	PriceLimit float64
	BatchSize  int
	BatchPause time.Duration

	HistDays int
	MinBars  int
	Mode     models.Mode
	// ReferenceDate pins the end of the historical window for reproducible
	// runs ("2006-01-02"). Zero means "now".
	ReferenceDate time.Time

	RequestTimeout   time.Duration
	MaxRateLimitWait time.Duration
	Concurrency      int

	ResultsFile string
	LogLevel    string

	TelegramToken  string
	TelegramChatID int64

	PostgresDSN string
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		QuoteURL:         getEnvWithDefault("QUOTE_URL", "https://stockquote.example.net/api/yahoo-finance"),
		HistURL:          getEnvWithDefault("HIST_URL", "https://stockquote.example.net/api/yahoo-finance-historical"),
		TickersFile:      getEnvWithDefault("TICKERS_FILE", "tickers.json"),
		PriceLimit:       getEnvFloatWithDefault("PRICE_LIMIT", 100),
		BatchSize:        getEnvIntWithDefault("BATCH_SIZE", 50),
		BatchPause:       getEnvDurationWithDefault("BATCH_PAUSE", 100*time.Millisecond),
		HistDays:         getEnvIntWithDefault("HIST_DAYS", 120),
		MinBars:          getEnvIntWithDefault("MIN_BARS", 60),
		Mode:             models.ParseMode(getEnvWithDefault("MODE", "bullish")),
		RequestTimeout:   getEnvDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxRateLimitWait: getEnvDurationWithDefault("MAX_RATE_LIMIT_WAIT", 5*time.Minute),
		Concurrency:      getEnvIntWithDefault("CONCURRENCY", 1),
		ResultsFile:      getEnvWithDefault("RESULTS_FILE", "analysis_results.json"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
	}

	if ref := os.Getenv("REFERENCE_DATE"); ref != "" {
		parsed, err := time.Parse("2006-01-02", ref)
		if err != nil {
			log.Warn().Str("value", ref).Msg("Invalid REFERENCE_DATE, using current date")
		} else {
			cfg.ReferenceDate = parsed
		}
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
