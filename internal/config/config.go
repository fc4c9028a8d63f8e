package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr          string
	BotDelay      time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	SearchDepth   int
	SearchWorkers int
	SearchCache   bool

	PostgresURL   string
	RedisURL      string
	RedisPassword string
	MoveCacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  zerolog.Level
	LogPretty bool
}

// LoadEnvFile loads .env from the working directory or its parent, if any.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("no .env file found")
		}
	}
}

func LoadConfig() *Config {
	addr := GetEnv("ADDR", ":8080")
	// PORT wins when set (Render, Fly.io, Heroku).
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	depth := GetEnvAsInt("SEARCH_DEPTH", 2)
	if depth < 1 {
		depth = 1
	}
	if depth > 4 {
		depth = 4
	}

	level, err := zerolog.ParseLevel(strings.ToLower(GetEnv("LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return &Config{
		Addr:          addr,
		BotDelay:      GetEnvAsDuration("BOT_DELAY", 0),
		IdleTimeout:   GetEnvAsDuration("IDLE_TIMEOUT", 30*time.Minute),
		SweepInterval: GetEnvAsDuration("SWEEP_INTERVAL", time.Minute),
		SearchDepth:   depth,
		SearchWorkers: GetEnvAsInt("SEARCH_WORKERS", 1),
		SearchCache:   GetEnvAsBool("SEARCH_CACHE", true),
		PostgresURL:   GetEnv("POSTGRES_URL", ""),
		RedisURL:      GetEnv("REDIS_URL", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		MoveCacheTTL:  GetEnvAsDuration("MOVE_CACHE_TTL", time.Hour),
		KafkaBrokers:  GetEnvAsList("KAFKA_BROKERS", ""),
		KafkaTopic:    GetEnv("KAFKA_TOPIC", "gomoku-events"),
		LogLevel:      level,
		LogPretty:     GetEnvAsBool("LOG_PRETTY", false),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}
	return value
}

// GetEnvAsList splits a comma separated value, dropping blank items.
func GetEnvAsList(key, defaultValue string) []string {
	var items []string
	for _, item := range strings.Split(GetEnv(key, defaultValue), ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// GetEnvAsDuration reads whole seconds.
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(valueStr)
	if err != nil || secs < 0 {
		log.Warn().Str("key", key).Str("value", valueStr).Dur("default", defaultValue).Msg("invalid duration, using default")
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
