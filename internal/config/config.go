// Package config provides configuration management for the asset dashboard application.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Providers ProvidersConfig
	Cache     CacheConfig
	Market    MarketConfig
	News      NewsConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// ProvidersConfig holds upstream market-data provider credentials
type ProvidersConfig struct {
	FinnhubAPIKey   string
	PolygonAPIKey   string
	CoinGeckoAPIKey string // optional, the free tier works without one
}

// CacheConfig holds cache TTL policy.
// Stocks are cached longer than crypto because crypto trades continuously.
type CacheConfig struct {
	StockTTL       time.Duration
	CryptoTTL      time.Duration
	PriceTTL       time.Duration
	SearchTTL      time.Duration
	StaleRetention time.Duration // how long past expiry an entry stays usable for stale-on-error
}

// PricePolicy selects how the last price is chosen from the live quote.
type PricePolicy string

const (
	// PolicyPreferLive uses the live quote whenever it is positive,
	// regardless of market status, falling back to previous close.
	PolicyPreferLive PricePolicy = "prefer-live"
	// PolicyLiveWhenOpen uses the live quote only while the market is
	// considered open, otherwise the previous close.
	PolicyLiveWhenOpen PricePolicy = "live-when-open"
)

// MarketConfig holds aggregation policy knobs
type MarketConfig struct {
	PricePolicy           PricePolicy
	MarketStatusFreshness time.Duration // quote older than this means the market is closed
	ChartDays             int
	ChartMaxPoints        int
}

// NewsConfig holds news pipeline configuration
type NewsConfig struct {
	FetchAPIKey         string // optional; when set, POST /api/news/fetch requires it
	RetentionRegular    int    // days
	RetentionHighImpact int    // days
	ImageScrapeTimeout  time.Duration
	CompanyTickers      []string // tickers whose company news is fetched alongside general news
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "asset_dashboard"),
				User:           getEnv("POSTGRES_USER", "dashboard"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
			},
		},
		Providers: ProvidersConfig{
			FinnhubAPIKey:   getEnv("FINNHUB_API_KEY", ""),
			PolygonAPIKey:   getEnv("POLYGON_API_KEY", ""),
			CoinGeckoAPIKey: getEnv("COINGECKO_API_KEY", ""),
		},
		Cache: CacheConfig{
			StockTTL:       getEnvAsDuration("STOCK_CACHE_TTL", 6*time.Hour),
			CryptoTTL:      getEnvAsDuration("CRYPTO_CACHE_TTL", 30*time.Minute),
			PriceTTL:       getEnvAsDuration("PRICE_CACHE_TTL", 60*time.Second),
			SearchTTL:      getEnvAsDuration("SEARCH_CACHE_TTL", 12*time.Hour),
			StaleRetention: getEnvAsDuration("STALE_RETENTION", 24*time.Hour),
		},
		Market: MarketConfig{
			PricePolicy:           parsePricePolicy(getEnv("PRICE_POLICY", string(PolicyPreferLive))),
			MarketStatusFreshness: getEnvAsDuration("MARKET_STATUS_FRESHNESS", 20*time.Minute),
			ChartDays:             getEnvAsInt("CHART_DAYS", 90),
			ChartMaxPoints:        getEnvAsInt("CHART_MAX_POINTS", 90),
		},
		News: NewsConfig{
			FetchAPIKey:         getEnv("NEWS_FETCH_API_KEY", ""),
			RetentionRegular:    getEnvAsInt("NEWS_RETENTION_REGULAR_DAYS", 14),
			RetentionHighImpact: getEnvAsInt("NEWS_RETENTION_HIGH_IMPACT_DAYS", 30),
			ImageScrapeTimeout:  getEnvAsDuration("NEWS_IMAGE_SCRAPE_TIMEOUT", 3*time.Second),
			CompanyTickers:      getEnvAsSlice("NEWS_COMPANY_TICKERS", []string{"AAPL", "MSFT", "NVDA", "TSLA"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// parsePricePolicy validates the configured price policy, defaulting to prefer-live
func parsePricePolicy(value string) PricePolicy {
	switch PricePolicy(value) {
	case PolicyPreferLive, PolicyLiveWhenOpen:
		return PricePolicy(value)
	default:
		return PolicyPreferLive
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice gets a comma-separated environment variable with a default value
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
