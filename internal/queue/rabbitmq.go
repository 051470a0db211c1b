package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"todo-services/internal/models"
	"todo-services/pkg/logger"
)

const dialTimeout = 2 * time.Second

// RegistrationPublisher sends UserRegisteredEvents to a durable RabbitMQ queue.
// Registrations are infrequent, so each publish dials its own connection.
type RegistrationPublisher struct {
	url   string
	queue string
}

// NewRegistrationPublisher returns nil when url is empty.
func NewRegistrationPublisher(url, queue string) *RegistrationPublisher {
	if url == "" {
		return nil
	}
	return &RegistrationPublisher{url: url, queue: queue}
}

// UserRegistered publishes ev as a persistent JSON message.
func (p *RegistrationPublisher) UserRegistered(ctx context.Context, ev models.UserRegisteredEvent) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Registration event published", "queue", p.queue, "user_id", ev.UserID)
	return nil
}
