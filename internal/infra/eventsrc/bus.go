package eventsrc

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const KafkaWriteTimeout = 10 * time.Second

type Bus interface {
	Publish(ctx context.Context, args *PublishArgs) error
}

type PublishArgs struct {
	Topic string
	Key   []byte
	Value []byte
}

/** Kafka Bus */

// KafkaBus publishes to a shared kafka.Writer. The writer is safe for
// concurrent callers, so a single bus may be shared by multiple stages.
type KafkaBus struct {
	writer *kafka.Writer
}

func NewKafkaBus(writer *kafka.Writer) *KafkaBus {
	return &KafkaBus{writer: writer}
}

func (b *KafkaBus) Publish(ctx context.Context, args *PublishArgs) error {
	msg := kafka.Message{
		Topic: args.Topic,
		Key:   args.Key,
		Value: args.Value,
	}

	wCtx, cancel := context.WithTimeout(ctx, KafkaWriteTimeout)
	defer cancel()

	return b.writer.WriteMessages(wCtx, msg)
}

/** In Memory Bus */

type BusMessage struct {
	Key   []byte
	Value []byte
}

type InMemoryBus struct {
	mu       sync.Mutex
	Messages map[string][]BusMessage
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{Messages: make(map[string][]BusMessage)}
}

func (b *InMemoryBus) Publish(ctx context.Context, args *PublishArgs) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Messages[args.Topic] = append(b.Messages[args.Topic], BusMessage{
		Key:   args.Key,
		Value: args.Value,
	})
	return nil
}

// TopicMessages returns the messages published to a topic so far.
func (b *InMemoryBus) TopicMessages(topic string) []BusMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	msgs := make([]BusMessage, len(b.Messages[topic]))
	copy(msgs, b.Messages[topic])
	return msgs
}
