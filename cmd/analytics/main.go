package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/gomoku-core/fiveinrow/internal/analytics"
	"github.com/gomoku-core/fiveinrow/internal/config"
)

type metrics struct {
	mu          sync.Mutex
	totalGames  int
	draws       int
	wins        map[string]int
	moveCounts  []float64
	aiThinkMs   []float64
	aiNodes     int64
	gamesPerDay map[string]int
}

func newMetrics() *metrics {
	return &metrics{
		wins:        make(map[string]int),
		gamesPerDay: make(map[string]int),
	}
}

func (m *metrics) record(e analytics.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Event {
	case analytics.EventGameFinished:
		m.totalGames++
		if draw, ok := e.Payload["isDraw"].(bool); ok && draw {
			m.draws++
		} else if winner, ok := e.Payload["winner"].(string); ok && winner != "" {
			m.wins[winner]++
		}
		if moves, ok := e.Payload["moves"].(float64); ok {
			m.moveCounts = append(m.moveCounts, moves)
		}
		m.gamesPerDay[e.Timestamp.Format("2006-01-02")]++
	case analytics.EventAIMove:
		if ms, ok := e.Payload["elapsedMs"].(float64); ok {
			m.aiThinkMs = append(m.aiThinkMs, ms)
		}
		if nodes, ok := e.Payload["nodes"].(float64); ok {
			m.aiNodes += int64(nodes)
		}
	}
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func (m *metrics) printStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.Info().
		Int("games", m.totalGames).
		Int("draws", m.draws).
		Interface("wins", m.wins).
		Float64("avgMoves", average(m.moveCounts)).
		Int("aiMoves", len(m.aiThinkMs)).
		Float64("avgThinkMs", average(m.aiThinkMs)).
		Int64("aiNodes", m.aiNodes).
		Interface("gamesPerDay", m.gamesPerDay).
		Msg("analytics summary")
}

func main() {
	config.LoadEnvFile()
	brokers := config.GetEnvAsList("KAFKA_BROKERS", "localhost:9092")
	topic := config.GetEnv("KAFKA_TOPIC", "gomoku-events")

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "gomoku-analytics",
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("analytics consumer listening")

	m := newMetrics()
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.printStats()
			}
		}
	}()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				m.printStats()
				return
			}
			log.Fatal().Err(err).Msg("read error")
		}
		var e analytics.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			log.Warn().Err(err).Msg("failed to unmarshal event")
			continue
		}
		m.record(e)
		log.Debug().Str("event", e.Event).Interface("gameId", e.Payload["gameId"]).Msg("event")
	}
}
