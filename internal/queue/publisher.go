package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends domain events to RabbitMQ.  Publishing is best
// effort: errors are logged and returned so callers can ignore them
// without interrupting the request flow.  A booking that fails to
// announce itself is still a booking.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the given AMQP URL per
// publish.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishBookingCreated announces a stored booking on the
// booking.created queue.
func (p *Publisher) PublishBookingCreated(ctx context.Context, ev BookingCreatedEvent) error {
	return p.publish(ctx, BookingCreatedQueue, ev)
}

// PublishBookingPaid announces a reconciled payment on the
// booking.paid queue.
func (p *Publisher) PublishBookingPaid(ctx context.Context, ev BookingPaidEvent) error {
	return p.publish(ctx, BookingPaidQueue, ev)
}

// PublishBookingRedeemed announces a consumed token on the
// booking.redeemed queue.
func (p *Publisher) PublishBookingRedeemed(ctx context.Context, ev BookingRedeemedEvent) error {
	return p.publish(ctx, BookingRedeemedQueue, ev)
}

// publish declares the durable queue (idempotent) and sends one
// persistent JSON message on the default exchange.
func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
