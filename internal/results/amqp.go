package results

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hongduc/quiz11/internal/quiz"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes each result to a topic exchange as a persistent
// JSON message.
type AMQPSink struct {
	mu         sync.Mutex
	ch         publisher
	exchange   string
	routingKey string
	closers    []func() error
}

// NewAMQPSink dials url and declares a durable topic exchange.
func NewAMQPSink(url, exchange, routingKey string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPSink{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		closers:    []func() error{ch.Close, conn.Close},
	}, nil
}

// Submit publishes one record.
func (s *AMQPSink) Submit(ctx context.Context, rec quiz.ResultRecord) error {
	data, err := encode(rec)
	if err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("encode payload: %w", err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.ch.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    stamp(rec),
		Body:         data,
	})
	if err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("publish to %s: %w", s.exchange, err)}
	}
	return nil
}

func (s *AMQPSink) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
