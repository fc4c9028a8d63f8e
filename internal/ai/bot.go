package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

// MoveCache keeps best moves between searches.
type MoveCache interface {
	LoadMove(ctx context.Context, key string) (game.Move, bool, error)
	SaveMove(ctx context.Context, key string, mv game.Move) error
}

// Bot is the automated opponent: an Engine plus an optional move cache.
type Bot struct {
	engine     *Engine
	cache      MoveCache
	onDecision func(game.Cell, Decision)
}

func NewBot(engine *Engine, cache MoveCache) *Bot {
	if engine == nil {
		engine = NewEngine()
	}
	return &Bot{engine: engine, cache: cache}
}

// OnDecision registers a callback invoked after every completed search.
func (b *Bot) OnDecision(fn func(marker game.Cell, d Decision)) {
	b.onDecision = fn
}

// CacheKey identifies a search by depth, marker and full board content.
func CacheKey(board *game.Board, marker game.Cell, depth int) string {
	return fmt.Sprintf("bestmove:%d:%s:%s", depth, marker, board.String())
}

func (b *Bot) ChooseMove(ctx context.Context, board game.Board, marker game.Cell) (game.Move, bool) {
	key := CacheKey(&board, marker, b.engine.Depth())
	if b.cache != nil {
		mv, ok, err := b.cache.LoadMove(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("move cache lookup failed")
		case ok && game.IsValidPosition(mv.Row, mv.Col) && board[mv.Row][mv.Col] == game.Empty:
			log.Debug().Int("row", mv.Row).Int("col", mv.Col).Msg("move cache hit")
			return mv, true
		}
	}

	d := b.engine.Analyze(board, marker)
	log.Debug().
		Str("marker", marker.String()).
		Int("row", d.Move.Row).
		Int("col", d.Move.Col).
		Int("score", d.Score).
		Int64("nodes", d.Nodes).
		Int64("cacheHits", d.CacheHits).
		Dur("elapsed", d.Elapsed).
		Msg("search finished")
	if b.onDecision != nil {
		b.onDecision(marker, d)
	}
	if !d.Found {
		return game.Move{}, false
	}
	if b.cache != nil {
		if err := b.cache.SaveMove(ctx, key, d.Move); err != nil {
			log.Warn().Err(err).Msg("move cache store failed")
		}
	}
	return d.Move, true
}
