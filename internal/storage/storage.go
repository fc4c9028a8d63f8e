package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

// Store persists best moves keyed by search signature. Implementations
// satisfy ai.MoveCache.
type Store interface {
	LoadMove(ctx context.Context, key string) (game.Move, bool, error)
	SaveMove(ctx context.Context, key string, mv game.Move) error
	Close(ctx context.Context)
}

// PostgresStore shares one connection; mu serializes access to it.
type PostgresStore struct {
	mu   sync.Mutex
	pool *pgx.Conn
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: conn}, nil
}

func (p *PostgresStore) Close(ctx context.Context) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		_ = p.pool.Close(ctx)
		p.pool = nil
	}
}

func (p *PostgresStore) EnsureTables(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS best_moves (
	key TEXT PRIMARY KEY,
	row_idx SMALLINT NOT NULL,
	col_idx SMALLINT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`)
	return err
}

func (p *PostgresStore) LoadMove(ctx context.Context, key string) (game.Move, bool, error) {
	if p == nil {
		return game.Move{}, false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool == nil {
		return game.Move{}, false, nil
	}
	var mv game.Move
	err := p.pool.QueryRow(ctx, `SELECT row_idx, col_idx FROM best_moves WHERE key = $1`, key).Scan(&mv.Row, &mv.Col)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.Move{}, false, nil
	}
	if err != nil {
		return game.Move{}, false, err
	}
	return mv, true, nil
}

func (p *PostgresStore) SaveMove(ctx context.Context, key string, mv game.Move) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool == nil {
		return nil
	}
	_, err := p.pool.Exec(ctx, `INSERT INTO best_moves (key, row_idx, col_idx)
VALUES ($1,$2,$3) ON CONFLICT (key) DO NOTHING`, key, mv.Row, mv.Col)
	if err != nil {
		log.Error().Err(err).Msg("failed to save best move")
	}
	return err
}
