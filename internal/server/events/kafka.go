package events

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
)

// messageWriter abstracts *kafka.Writer for tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher serializes events with sonic and writes them to a topic,
// keyed by media id so per-media ordering is preserved.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher builds a publisher for the given broker and topic.
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishMediaRegistered(ctx context.Context, ev MediaRegistered) error {
	payload, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.MediaID),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
