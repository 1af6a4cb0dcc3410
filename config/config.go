package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Search
	JioMartUserID string
	JioMartCookie string
	SearchLimit   int
	HotThreshold  float64
	BrowserBin    string // headless fallback; empty lets rod fetch one
	HTTPTimeout   time.Duration

	// Stealth
	RespectRobots bool
	DelayProfile  string // "cautious", "normal", "aggressive", "none"
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int
	ProxyFile     string

	// Storage
	DealStore    string // "csv:path", "sqlite:path" or a bare csv path
	AccountStore string // file path or redis:// URL

	// Rider service
	RiderBaseURL  string
	RiderProvider string
	RiderHashCode string

	// HTTP server
	HTTPPort string
	APIKey   string

	// Logging
	LogLevel  string
	LogFormat string // "json" or "console"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SearchLimit:   50,
		HotThreshold:  30,
		HTTPTimeout:   30 * time.Second,
		RespectRobots: true,
		DelayProfile:  "normal",
		RatePerSecond: 2.0,
		RateBurst:     3,
		MaxConcurrent: 3,
		DealStore:     "csv:saved_deals.csv",
		AccountStore:  "rider_accounts.json",
		RiderProvider: "SMS",
		HTTPPort:      "8080",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	setString(&c.JioMartUserID, "MARTDASH_JIOMART_USER_ID")
	setString(&c.JioMartCookie, "MARTDASH_JIOMART_COOKIE")
	setInt(&c.SearchLimit, "MARTDASH_SEARCH_LIMIT")
	setFloat(&c.HotThreshold, "MARTDASH_HOT_THRESHOLD")
	setString(&c.BrowserBin, "MARTDASH_BROWSER_BIN")
	if v := os.Getenv("MARTDASH_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}

	if v := os.Getenv("MARTDASH_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	setString(&c.DelayProfile, "MARTDASH_DELAY_PROFILE")
	setFloat(&c.RatePerSecond, "MARTDASH_RATE_PER_SECOND")
	setInt(&c.RateBurst, "MARTDASH_RATE_BURST")
	setInt(&c.MaxConcurrent, "MARTDASH_MAX_CONCURRENT")
	setString(&c.ProxyFile, "MARTDASH_PROXIES")

	setString(&c.DealStore, "MARTDASH_DEAL_STORE")
	setString(&c.AccountStore, "MARTDASH_ACCOUNT_STORE")

	setString(&c.RiderBaseURL, "MARTDASH_RIDER_BASE_URL")
	setString(&c.RiderProvider, "MARTDASH_RIDER_PROVIDER")
	setString(&c.RiderHashCode, "MARTDASH_RIDER_HASH_CODE")

	setString(&c.HTTPPort, "PORT")
	setString(&c.APIKey, "MARTDASH_API_KEY")

	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
