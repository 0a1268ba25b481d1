package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer publishes storefront events to Kafka.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// PublishOrderCreated publishes an OrderCreated event keyed by session id,
// so duplicate-session deliveries land on the same partition.
func (p *Producer) PublishOrderCreated(ctx context.Context, e OrderCreated) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	envelope := Envelope{
		ID:         uuid.New().String(),
		Type:       TypeOrderCreated,
		OccurredAt: time.Now(),
		Data:       data,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.SessionID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
