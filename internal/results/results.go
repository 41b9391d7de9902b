package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongduc/quiz11/internal/config"
	"github.com/hongduc/quiz11/internal/quiz"
)

// Sink kinds accepted in configuration.
const (
	KindSheet    = "sheet"
	KindRedis    = "redis"
	KindAMQP     = "amqp"
	KindPostgres = "postgres"
	KindNone     = "none"
)

// Sink is a quiz.ResultSink that holds a connection.
type Sink interface {
	quiz.ResultSink
	Close() error
}

var (
	_ Sink = (*SheetSink)(nil)
	_ Sink = (*RedisSink)(nil)
	_ Sink = (*AMQPSink)(nil)
	_ Sink = (*PostgresSink)(nil)
)

// ErrNotConfigured is returned when the selected kind lacks its endpoint.
var ErrNotConfigured = errors.New("result sink is not configured")

// New builds the sink named by cfg.Kind. KindNone returns a nil Sink and
// a nil error: submission is then disabled.
func New(ctx context.Context, cfg config.Results) (Sink, error) {
	switch cfg.Kind {
	case KindNone:
		return nil, nil
	case KindSheet, "":
		if cfg.SheetURL == "" {
			return nil, fmt.Errorf("%w: sheet_url is empty", ErrNotConfigured)
		}
		return NewSheetSink(cfg.SheetURL, cfg.Timeout), nil
	case KindRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: redis_addr is empty", ErrNotConfigured)
		}
		return wrap(NewRedisSink(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey))
	case KindAMQP:
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("%w: amqp_url is empty", ErrNotConfigured)
		}
		return wrap(NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey))
	case KindPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%w: postgres_dsn is empty", ErrNotConfigured)
		}
		return wrap(NewPostgresSink(ctx, cfg.PostgresDSN, cfg.PostgresTable))
	default:
		return nil, fmt.Errorf("unknown result sink kind %q", cfg.Kind)
	}
}

// wrap keeps a failed constructor from yielding a non-nil Sink holding a
// nil pointer.
func wrap[S Sink](s S, err error) (Sink, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
