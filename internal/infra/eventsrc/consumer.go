package eventsrc

import (
	"context"
	"time"

	"github.com/cgund98/go-order-pipeline/internal/infra/logging"

	"github.com/segmentio/kafka-go"
)

const ConsumerRetryDelay = 5 * time.Second
const DefaultBatchSize = 100
const DefaultBatchMaxWait = 500 * time.Millisecond

// BatchConsumer is an interface for processing a batch of events pulled from
// the event message bus. Returning a non-nil error leaves the whole batch
// uncommitted, so the broker redelivers every event in it.
type BatchConsumer interface {
	Name() string
	Consume(ctx context.Context, batch [][]byte) error
}

// Reader is an interface for reading messages from Kafka.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// fetchBatch blocks for the first message, then drains up to size-1 more
// until maxWait elapses.
func fetchBatch(ctx context.Context, reader Reader, size int, maxWait time.Duration) ([]kafka.Message, error) {
	first, err := reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	msgs := []kafka.Message{first}

	drainCtx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	for len(msgs) < size {
		msg, err := reader.FetchMessage(drainCtx)
		if err != nil {
			break
		}
		msgs = append(msgs, msg)
	}

	// A shutdown mid-drain abandons the batch; nothing was committed, so a
	// replacement worker will receive it again.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return msgs, nil
}

// runBatchConsumerOnce reads one batch from the reader, hands it to the
// consumer, and commits all offsets only if the consumer returns nil. On a
// consumer error nothing is committed: every event in the batch, including
// ones already processed successfully, will be delivered again.
func runBatchConsumerOnce(ctx context.Context, reader Reader, consumer BatchConsumer, size int, maxWait time.Duration) error {
	msgs, err := fetchBatch(ctx, reader, size, maxWait)
	if err != nil {
		logging.Logger.Error("error reading batch", "error", err, "consumer", consumer.Name())
		return err
	}

	logging.Logger.Debug("Received batch", "size", len(msgs), "consumer", consumer.Name())

	batch := make([][]byte, len(msgs))
	for i, msg := range msgs {
		batch[i] = msg.Value
	}

	if err := consumer.Consume(ctx, batch); err != nil {
		logging.Logger.Error("error processing batch", "error", err, "size", len(msgs), "consumer", consumer.Name())
		return err
	}

	if err := reader.CommitMessages(ctx, msgs...); err != nil {
		logging.Logger.Error("error committing batch", "error", err, "consumer", consumer.Name())
		return err
	}

	return nil
}

type RunBatchConsumerOptions struct {
	BatchSize    int
	BatchMaxWait time.Duration
	RetryDelay   *time.Duration
}

// RunBatchConsumer runs a kafka batch consumer in a loop until the context is
// cancelled. Workers stop between batches, never mid-batch.
func RunBatchConsumer(ctx context.Context, reader Reader, consumer BatchConsumer, opts RunBatchConsumerOptions) error {

	// Parse options
	size := DefaultBatchSize
	if opts.BatchSize > 0 {
		size = opts.BatchSize
	}
	maxWait := DefaultBatchMaxWait
	if opts.BatchMaxWait > 0 {
		maxWait = opts.BatchMaxWait
	}
	retryDelay := ConsumerRetryDelay
	if opts.RetryDelay != nil {
		retryDelay = *opts.RetryDelay
	}

	logging.Logger.Info("Starting kafka batch consumer", "consumer", consumer.Name())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			err := runBatchConsumerOnce(ctx, reader, consumer, size, maxWait)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logging.Logger.Error("error running kafka consumer", "error", err)
				time.Sleep(retryDelay)
			}
		}
	}
}
