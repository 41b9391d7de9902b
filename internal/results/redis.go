package results

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hongduc/quiz11/internal/quiz"
)

type listPusher interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisSink appends each result as a JSON string to a Redis list.
type RedisSink struct {
	rdb    listPusher
	key    string
	closer func() error
}

// NewRedisSink connects to addr and verifies the server answers PING.
func NewRedisSink(ctx context.Context, addr, password string, db int, key string) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisSink{rdb: rdb, key: key, closer: rdb.Close}, nil
}

// Submit pushes one record onto the list.
func (s *RedisSink) Submit(ctx context.Context, rec quiz.ResultRecord) error {
	data, err := encode(rec)
	if err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("encode payload: %w", err)}
	}
	if err := s.rdb.RPush(ctx, s.key, data).Err(); err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("rpush %s: %w", s.key, err)}
	}
	return nil
}

func (s *RedisSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
