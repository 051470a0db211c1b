package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"todo-services/internal/models"
	"todo-services/pkg/logger"
)

// EnsureTopic creates the todo-events topic with the configured partitions.
// Failures are logged; the service runs without it.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int) {
	if len(brokers) == 0 {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", topic, "partitions", partitions)
}

// EventPublisher writes TodoEvents to Kafka, keyed by owner so one owner's
// events stay ordered within a partition.
type EventPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher returns nil when no brokers are configured; a nil
// publisher drops events.
func NewEventPublisher(ctx context.Context, brokers []string, topic string) *EventPublisher {
	if len(brokers) == 0 {
		logger.Info(ctx, "Kafka disabled (no brokers); todo events will not be published")
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn(context.Background(), "Kafka async write failed", "error", err, "messages", len(messages))
			}
		},
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", topic, "brokers", brokers)
	return &EventPublisher{writer: w}
}

// Publish enqueues ev. With the async writer it does not wait for the broker.
func (p *EventPublisher) Publish(ctx context.Context, ev *models.TodoEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	msg, err := EncodeTodoEvent(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages.
func (p *EventPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// EncodeTodoEvent builds the Kafka message for ev.
func EncodeTodoEvent(ev *models.TodoEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(ev.OwnerID), Value: payload}, nil
}

// DecodeTodoEvent parses a Kafka message value.
func DecodeTodoEvent(value []byte) (*models.TodoEvent, error) {
	var ev models.TodoEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return nil, err
	}
	if ev.OwnerID == "" {
		return nil, fmt.Errorf("todo event %q without owner", ev.Type)
	}
	return &ev, nil
}
