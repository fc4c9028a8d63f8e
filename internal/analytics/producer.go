package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/gomoku-core/fiveinrow/internal/ai"
	"github.com/gomoku-core/fiveinrow/internal/game"
)

const (
	EventGameCreated  = "game_created"
	EventMovePlayed   = "move_played"
	EventAIMove       = "ai_move"
	EventGameFinished = "game_finished"
)

// Event is the envelope written to the topic.
type Event struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("messages", len(messages)).Msg("kafka publish failed")
			}
		},
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, event string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	data, err := json.Marshal(Event{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("encode event")
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("kafka publish failed")
	}
}

func (p *Producer) GameCreated(ctx context.Context, v game.View) {
	p.Publish(ctx, EventGameCreated, map[string]any{
		"gameId": v.ID,
		"mode":   string(v.Mode),
		"human":  v.Human.String(),
	})
}

func (p *Producer) MovePlayed(ctx context.Context, v game.View, res game.MoveResult) {
	p.Publish(ctx, EventMovePlayed, map[string]any{
		"gameId": v.ID,
		"marker": res.Marker.String(),
		"row":    res.Position.Row,
		"col":    res.Position.Col,
		"moves":  v.State.Moves,
	})
}

func (p *Producer) AIMove(ctx context.Context, marker game.Cell, d ai.Decision) {
	p.Publish(ctx, EventAIMove, map[string]any{
		"marker":    marker.String(),
		"found":     d.Found,
		"row":       d.Move.Row,
		"col":       d.Move.Col,
		"score":     d.Score,
		"nodes":     d.Nodes,
		"cacheHits": d.CacheHits,
		"elapsedMs": float64(d.Elapsed.Microseconds()) / 1000,
	})
}

func (p *Producer) GameFinished(ctx context.Context, v game.View) {
	p.Publish(ctx, EventGameFinished, map[string]any{
		"gameId":    v.ID,
		"mode":      string(v.Mode),
		"winner":    v.State.Winner.String(),
		"isDraw":    v.State.IsDraw,
		"moves":     v.State.Moves,
		"duration":  v.EndedAt.Sub(v.StartedAt).Seconds(),
		"startedAt": v.StartedAt,
		"endedAt":   v.EndedAt,
	})
}

func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	_ = p.writer.Close()
}
