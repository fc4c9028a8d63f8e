package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

// RedisStore keeps best moves as "row,col" strings with an expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Close(context.Context) {
	if r.client != nil {
		_ = r.client.Close()
	}
}

func (r *RedisStore) LoadMove(ctx context.Context, key string) (game.Move, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return game.Move{}, false, nil
	}
	if err != nil {
		return game.Move{}, false, err
	}
	mv, err := parseMove(val)
	if err != nil {
		return game.Move{}, false, err
	}
	return mv, true, nil
}

func (r *RedisStore) SaveMove(ctx context.Context, key string, mv game.Move) error {
	return r.client.Set(ctx, key, formatMove(mv), r.ttl).Err()
}

func formatMove(mv game.Move) string {
	return strconv.Itoa(mv.Row) + "," + strconv.Itoa(mv.Col)
}

func parseMove(s string) (game.Move, error) {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return game.Move{}, fmt.Errorf("malformed move %q", s)
	}
	row, err := strconv.Atoi(rs)
	if err != nil {
		return game.Move{}, fmt.Errorf("malformed move %q: %w", s, err)
	}
	col, err := strconv.Atoi(cs)
	if err != nil {
		return game.Move{}, fmt.Errorf("malformed move %q: %w", s, err)
	}
	return game.Move{Row: row, Col: col}, nil
}
