package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier delivers booking lifecycle notifications to customers.
// Implementations must be safe for concurrent use.
type Notifier interface {
	BookingCreated(ctx context.Context, ev BookingCreatedEvent) error
	BookingPaid(ctx context.Context, ev BookingPaidEvent) error
}

// Consumer listens on the booking queues and forwards events to a
// Notifier.  It runs a reconnect loop with exponential backoff and
// keeps running until Start's context is cancelled; processing errors
// are logged and the offending message rejected so the server keeps
// operating.
type Consumer struct {
	url      string
	notifier Notifier

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewConsumer returns a Consumer bound to the given AMQP URL and
// notifier.
func NewConsumer(url string, n Notifier) *Consumer {
	return &Consumer{url: url, notifier: n, seen: make(map[string]struct{})}
}

// markSeen records an event ID and reports whether it was already
// processed.  Redelivered messages after an ack lost in transit are
// dropped here instead of notifying the customer twice.
func (c *Consumer) markSeen(id string) bool {
	if id == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[id]; ok {
		return true
	}
	// Bound the set; old entries only matter within a redelivery window.
	if len(c.seen) > 10000 {
		c.seen = make(map[string]struct{})
	}
	c.seen[id] = struct{}{}
	return false
}

// Start connects to the broker and consumes until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := c.consumeLoop(ctx, conn); err != nil {
			_ = conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{BookingCreatedQueue, BookingPaidQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	created, err := ch.Consume(BookingCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", BookingCreatedQueue, err)
	}
	paid, err := ch.Consume(BookingPaidQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", BookingPaidQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-created:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.dispatch(ctx, d, c.handleCreated)
		case d, ok := <-paid:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.dispatch(ctx, d, c.handlePaid)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery, handle func(context.Context, []byte) error) {
	if err := handle(ctx, d.Body); err != nil {
		log.Printf("booking-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) handleCreated(ctx context.Context, body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if c.markSeen(ev.EventID) {
		return nil
	}
	return c.notifier.BookingCreated(ctx, ev)
}

func (c *Consumer) handlePaid(ctx context.Context, body []byte) error {
	var ev BookingPaidEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if c.markSeen(ev.EventID) {
		return nil
	}
	return c.notifier.BookingPaid(ctx, ev)
}
