package kafkaout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catering_ops/internal/core/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ChangePublisher emits one message per change log entry, keyed by the
// order's surrogate key so all changes of an order land in one partition.
type ChangePublisher struct {
	writer  messageWriter
	timeout time.Duration
}

type PublisherConfig struct {
	Brokers []string
	Topic   string
}

func NewChangePublisher(cfg PublisherConfig) *ChangePublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newChangePublisher(w)
}

func newChangePublisher(w messageWriter) *ChangePublisher {
	return &ChangePublisher{writer: w, timeout: 5 * time.Second}
}

type changeEvent struct {
	Type string           `json:"type"`
	Log  domain.ChangeLog `json:"log"`
}

func (p *ChangePublisher) PublishChange(ctx context.Context, l domain.ChangeLog) error {
	b, err := json.Marshal(changeEvent{Type: "os.panel.changed", Log: l})
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(l.OrderRef),
		Value: b,
		Time:  l.CreatedAt,
	}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *ChangePublisher) Close() error {
	return p.writer.Close()
}
