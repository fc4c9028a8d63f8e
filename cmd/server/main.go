package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gomoku-core/fiveinrow/internal/ai"
	"github.com/gomoku-core/fiveinrow/internal/analytics"
	"github.com/gomoku-core/fiveinrow/internal/config"
	"github.com/gomoku-core/fiveinrow/internal/game"
	"github.com/gomoku-core/fiveinrow/internal/server"
	"github.com/gomoku-core/fiveinrow/internal/storage"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadConfig()

	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	store := openStore(ctx, cfg)
	defer store.Close(ctx)

	var producer *analytics.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("analytics enabled")
	}
	defer producer.Close()

	engine := ai.NewEngine(
		ai.WithDepth(cfg.SearchDepth),
		ai.WithWorkers(cfg.SearchWorkers),
		ai.WithCache(cfg.SearchCache),
	)
	bot := ai.NewBot(engine, store)
	bot.OnDecision(func(marker game.Cell, d ai.Decision) {
		producer.AIMove(context.Background(), marker, d)
	})

	srv := server.New(server.Config{
		BotDelay:      cfg.BotDelay,
		IdleTimeout:   cfg.IdleTimeout,
		SweepInterval: cfg.SweepInterval,
		Bot:           bot,
		Analytics:     producer,
	})

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go srv.Sweep(sweepCtx)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("depth", engine.Depth()).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// openStore picks the move cache backend: Postgres, then Redis, then memory.
func openStore(ctx context.Context, cfg *config.Config) storage.Store {
	if cfg.PostgresURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Warn().Err(err).Msg("postgres disabled")
		} else if err := pg.EnsureTables(ctx); err != nil {
			log.Warn().Err(err).Msg("postgres ensure tables failed")
			pg.Close(ctx)
		} else {
			log.Info().Msg("move cache: postgres")
			return pg
		}
	}
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.MoveCacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("redis disabled")
		} else {
			log.Info().Msg("move cache: redis")
			return rs
		}
	}
	log.Info().Msg("move cache: memory")
	return storage.NewMemoryStore(100000)
}
