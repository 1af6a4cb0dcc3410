package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := DefaultConfig()
	if c.HotThreshold != 30 || c.DealStore != "csv:saved_deals.csv" || !c.RespectRobots {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTDASH_HOT_THRESHOLD", "45.5")
	t.Setenv("MARTDASH_MAX_CONCURRENT", "7")
	t.Setenv("MARTDASH_RESPECT_ROBOTS", "false")
	t.Setenv("MARTDASH_ACCOUNT_STORE", "redis://localhost:6379/0")
	t.Setenv("MARTDASH_RIDER_BASE_URL", "https://rider.example")
	t.Setenv("MARTDASH_HTTP_TIMEOUT", "5s")
	t.Setenv("MARTDASH_RATE_BURST", "not-a-number")
	t.Setenv("PORT", "9090")

	c := DefaultConfig()
	c.LoadFromEnv()

	if c.HotThreshold != 45.5 || c.MaxConcurrent != 7 || c.RespectRobots {
		t.Errorf("numeric/bool overrides = %+v", c)
	}
	if c.AccountStore != "redis://localhost:6379/0" || c.RiderBaseURL != "https://rider.example" {
		t.Errorf("string overrides = %+v", c)
	}
	if c.HTTPTimeout != 5*time.Second || c.HTTPPort != "9090" {
		t.Errorf("timeout/port = %v %s", c.HTTPTimeout, c.HTTPPort)
	}
	if c.RateBurst != 3 {
		t.Errorf("bad int should keep default, got %d", c.RateBurst)
	}
}
