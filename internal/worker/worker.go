package worker

import (
	"context"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	"todo-services/internal/queue"
	"todo-services/pkg/logger"
)

const groupID = "todo-cache-invalidators"

// Invalidator drops an owner's cached todo lists.
type Invalidator interface {
	InvalidateOwner(ctx context.Context, ownerID string)
}

// Run consumes TodoEvents and invalidates the owner's cached lists. It returns
// when ctx is done. One consumer per process; replicas share partitions
// through the consumer group.
func Run(ctx context.Context, brokers []string, topic string, inv Invalidator) {
	if len(brokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", topic)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped", "processed", atomic.LoadInt64(&processed))
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, msg.Value, inv); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		atomic.AddInt64(&processed, 1)
	}
}

func handleMessage(ctx context.Context, payload []byte, inv Invalidator) error {
	ev, err := queue.DecodeTodoEvent(payload)
	if err != nil {
		return err
	}
	inv.InvalidateOwner(ctx, ev.OwnerID)
	logger.Debug(ctx, "Cache invalidated from event", "type", ev.Type, "owner_id", ev.OwnerID)
	return nil
}
