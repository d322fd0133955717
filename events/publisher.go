package events

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OrderEvent is published to the kitchen display feed on every order
// lifecycle change.
type OrderEvent struct {
	OrderID  uint      `json:"order_id"`
	OrderNo  int       `json:"order_no"`
	Type     string    `json:"type"` // opened, status_changed, paid, merged, split
	Status   string    `json:"status"`
	Total    float64   `json:"total"`
	Occurred time.Time `json:"occurred"`
}

const exchangeName = "cafe_pos_orders"

// Publisher pushes order events to RabbitMQ. A nil Publisher is valid and
// drops every event, so the API runs fine without a broker.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Connect dials the broker and declares the fanout exchange the kitchen
// display consumes from. Returns nil (events disabled) when url is empty.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish sends one event; failures are logged, never surfaced to the
// request path.
func (p *Publisher) Publish(event OrderEvent) {
	if p == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}
	err = p.channel.Publish(
		exchangeName,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   event.Occurred,
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("events: publish failed: %v", err)
	}
}

// Close shuts down the channel and connection
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.channel.Close()
	p.conn.Close()
}
