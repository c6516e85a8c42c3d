package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Attempt lifecycle routing keys.
const (
	AttemptStarted       = "attempt.started"
	AttemptSubmitted     = "attempt.submitted"
	AttemptExpired       = "attempt.expired"
	AttemptPersistFailed = "attempt.persist_failed"
	StatusReconciled     = "status.reconciled"
)

type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends an event with the type as routing key. A nil publisher is a
// no-op so callers need not guard every site.
func (p *EventPublisher) Publish(eventType string, payload interface{}) error {
	if p == nil {
		return nil
	}
	event := map[string]interface{}{
		"type":        eventType,
		"payload":     payload,
		"occurred_at": time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	log.Printf("[EVENT] %s: %v", eventType, payload)

	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *EventPublisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
