package kafkain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/ports/inbound"

	"github.com/segmentio/kafka-go"
)

// Message results reported to the observer.
const (
	ResultIngested = "ingested"
	ResultPoison   = "poison"
	ResultRetry    = "retry"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageObserver interface {
	ObserveMessage(result string)
}

type Consumer struct {
	reader   messageReader
	svc      inbound.OrderUseCase
	log      *slog.Logger
	observer MessageObserver
	backoff  time.Duration
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

func NewConsumer(cfg ConsumerConfig, svc inbound.OrderUseCase, log *slog.Logger, observer MessageObserver) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, svc, log, observer)
}

func newConsumer(r messageReader, svc inbound.OrderUseCase, log *slog.Logger, observer MessageObserver) *Consumer {
	return &Consumer{
		reader:   r,
		svc:      svc,
		log:      log.With(slog.String("component", "kafka_consumer")),
		observer: observer,
		backoff:  time.Second,
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Run blocks until ctx is cancelled. Undecodable or invalid orders are
// committed and skipped; any other ingest failure is retried on the same
// message after a pause, without committing.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			c.log.ErrorContext(ctx, "fetch failed", slog.String("error", err.Error()))
			if !c.sleep(ctx, c.backoff/2) {
				return
			}
			continue
		}

		// the reader does not rewind, so a failed message is retried here
		// until it goes through; fetching past it would lose it on the
		// next commit
		for !c.handle(ctx, msg) {
			if !c.sleep(ctx, c.backoff) {
				return
			}
		}
	}
}

// handle reports whether the offset can move past msg.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message) bool {
	order, derr := DecodeOrder(msg.Value)
	if derr != nil {
		c.log.WarnContext(ctx, "bad message, skipping",
			slog.String("key", string(msg.Key)),
			slog.Int64("offset", msg.Offset),
			slog.String("error", derr.Error()),
		)
		c.observe(ResultPoison)
		c.commit(ctx, msg)
		return true
	}

	if err := c.svc.Ingest(ctx, order); err != nil {
		if errors.Is(err, domain.ErrInvalid) {
			c.log.WarnContext(ctx, "order rejected, skipping",
				slog.String("os_id", order.ID),
				slog.String("error", err.Error()),
			)
			c.observe(ResultPoison)
			c.commit(ctx, msg)
			return true
		}
		c.log.ErrorContext(ctx, "ingest failed, will retry",
			slog.String("os_id", order.ID),
			slog.String("error", err.Error()),
		)
		c.observe(ResultRetry)
		return false
	}

	c.observe(ResultIngested)
	c.commit(ctx, msg)
	return true
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		// uncommitted offsets are redelivered; Ingest is an upsert
		c.log.ErrorContext(ctx, "commit failed", slog.String("error", err.Error()))
	}
}

func (c *Consumer) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveMessage(result)
	}
}

func (c *Consumer) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
