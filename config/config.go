package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Market data providers understood by the fetcher
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL            string
	TenantPrefix     string
	MarketProvider   string
	AVKey            string
	YahooBaseURL     string
	FetchConcurrency int
	Port             string
	LogLevel         string
	LogFormat        string
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	prefix := getEnv("TENANT_PREFIX", "user_")
	if !validPrefix(prefix) {
		return nil, fmt.Errorf("TENANT_PREFIX %q must be lowercase letters, digits or underscores", prefix)
	}

	provider := strings.ToLower(getEnv("MARKET_PROVIDER", ProviderYahoo))
	avKey := os.Getenv("AV_KEY")
	switch provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if avKey == "" {
			return nil, fmt.Errorf("AV_KEY environment variable is required when MARKET_PROVIDER=%s", ProviderAlphaVantage)
		}
	default:
		return nil, fmt.Errorf("unknown MARKET_PROVIDER %q (want %s or %s)", provider, ProviderYahoo, ProviderAlphaVantage)
	}

	concurrency, err := strconv.Atoi(getEnv("FETCH_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 {
		return nil, fmt.Errorf("FETCH_CONCURRENCY must be a positive integer")
	}

	return &Config{
		PGURL:            pgURL,
		TenantPrefix:     prefix,
		MarketProvider:   provider,
		AVKey:            avKey,
		YahooBaseURL:     os.Getenv("YAHOO_BASE_URL"),
		FetchConcurrency: concurrency,
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// tenant schemas are built from the prefix, so it must stay a plain identifier
func validPrefix(p string) bool {
	if p == "" || len(p) > 30 {
		return false
	}
	for _, r := range p {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' {
			return false
		}
	}
	return true
}
