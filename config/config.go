package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"realTimeDash/internal/adapters/logger"
)

// Price providers.
const (
	ProviderTwelveData = "twelvedata"
	ProviderBinance    = "binance"
)

// Config holds all application configuration.
type Config struct {
	// Pipeline
	TickInterval time.Duration
	MaxPoints    int
	Symbols      []string

	// Price source
	PriceProvider    string
	TwelveDataURL    string
	TwelveDataAPIKey string
	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceTestnet   bool
	FetchTimeout     time.Duration

	// Database
	DBPath       string
	StoreTimeout time.Duration

	// Render boundary
	HTTPAddr      string // Empty disables the HTTP view
	RedisAddr     string // Empty disables the Redis publisher
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string

	tickMs, err := getEnvAsIntRequired("TICK_INTERVAL_MS", 1000)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TICK_INTERVAL_MS: %v", err))
	} else if tickMs <= 0 {
		errs = append(errs, "TICK_INTERVAL_MS must be positive")
	}
	cfg.TickInterval = time.Duration(tickMs) * time.Millisecond

	cfg.MaxPoints, err = getEnvAsIntRequired("MAX_POINTS", 20)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_POINTS: %v", err))
	} else if cfg.MaxPoints <= 0 {
		errs = append(errs, "MAX_POINTS must be positive")
	}

	cfg.Symbols = getEnvAsList("SYMBOLS", []string{"AAPL"})

	cfg.PriceProvider = strings.ToLower(getEnv("PRICE_PROVIDER", ProviderTwelveData))
	switch cfg.PriceProvider {
	case ProviderTwelveData, ProviderBinance:
	default:
		errs = append(errs, fmt.Sprintf("PRICE_PROVIDER must be %q or %q", ProviderTwelveData, ProviderBinance))
	}
	cfg.TwelveDataURL = getEnv("TWELVE_DATA_URL", "https://api.twelvedata.com/price")
	cfg.TwelveDataAPIKey = getEnv("TWELVE_DATA_API_KEY", "")
	cfg.BinanceAPIKey = getEnv("BINANCE_API_KEY", "")
	cfg.BinanceSecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.BinanceTestnet = getEnvAsBool("IS_TESTNET", true)

	fetchSeconds := getEnvAsInt("FETCH_TIMEOUT_SECONDS", 3)
	if fetchSeconds <= 0 {
		errs = append(errs, "FETCH_TIMEOUT_SECONDS must be positive")
	}
	cfg.FetchTimeout = time.Duration(fetchSeconds) * time.Second

	cfg.DBPath = getEnv("DB_PATH", "./data/data_dashboard.db")
	storeSeconds := getEnvAsInt("STORE_TIMEOUT_SECONDS", 2)
	if storeSeconds <= 0 {
		errs = append(errs, "STORE_TIMEOUT_SECONDS must be positive")
	}
	cfg.StoreTimeout = time.Duration(storeSeconds) * time.Second

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if _, set := os.LookupEnv("HTTP_ADDR"); !set {
		cfg.HTTPAddr = ":8080"
	}
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsIntRequired("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REDIS_DB: %v", err))
	} else if cfg.RedisDB < 0 {
		errs = append(errs, "REDIS_DB cannot be negative")
	}
	cfg.RedisChannel = getEnv("REDIS_CHANNEL", "dashboard.snapshots")

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated value, dropping blanks and duplicates.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		item := strings.ToUpper(strings.TrimSpace(part))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
