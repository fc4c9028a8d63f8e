package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ADDR", "SEARCH_DEPTH", "KAFKA_BROKERS", "LOG_LEVEL", "BOT_DELAY", "SEARCH_CACHE"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Addr)
	}
	if cfg.SearchDepth != 2 || !cfg.SearchCache {
		t.Fatalf("unexpected search defaults %+v", cfg)
	}
	if cfg.KafkaBrokers != nil || cfg.KafkaTopic != "gomoku-events" {
		t.Fatalf("unexpected kafka defaults %v %q", cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	if cfg.LogLevel != zerolog.InfoLevel || cfg.BotDelay != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ADDR", ":1234")
	t.Setenv("SEARCH_DEPTH", "9")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("BOT_DELAY", "2")
	t.Setenv("SEARCH_CACHE", "false")

	cfg := LoadConfig()
	if cfg.Addr != ":9000" {
		t.Fatalf("PORT should win over ADDR, got %q", cfg.Addr)
	}
	if cfg.SearchDepth != 4 {
		t.Fatalf("expected depth clamped to 4, got %d", cfg.SearchDepth)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:9092" || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.LogLevel != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.BotDelay != 2*time.Second || cfg.SearchCache {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CFG_INT", "nope")
	t.Setenv("CFG_BOOL", "yes-ish")
	t.Setenv("CFG_DUR", "-5")
	if GetEnvAsInt("CFG_INT", 7) != 7 {
		t.Fatalf("invalid int should fall back")
	}
	if !GetEnvAsBool("CFG_BOOL", true) {
		t.Fatalf("invalid bool should fall back")
	}
	if GetEnvAsDuration("CFG_DUR", time.Minute) != time.Minute {
		t.Fatalf("negative duration should fall back")
	}
	if got := GetEnvAsList("CFG_MISSING", "a:1, b:2,,"); len(got) != 2 || got[0] != "a:1" || got[1] != "b:2" {
		t.Fatalf("expected default list split on commas, got %v", got)
	}
	if GetEnv("CFG_MISSING", "x") != "x" {
		t.Fatalf("missing key should fall back")
	}
}
