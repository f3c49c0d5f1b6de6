package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// NotificationWriter stores admin notifications
type NotificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Consumer turns plan events from the queue into notifications
type Consumer struct {
	url    string
	queue  string
	store  NotificationWriter
	logger *zap.Logger
}

// NewConsumer creates a consumer reading queue on the broker at url
func NewConsumer(url, queue string, store NotificationWriter, logger *zap.Logger) *Consumer {
	if queue == "" {
		queue = DefaultQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{url: url, queue: queue, store: store, logger: logger}
}

// Run keeps a connection to the broker and consumes until ctx is done,
// reconnecting with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("plan consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("plan consumer: loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.Warn("plan consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(ctx, d.Body); err != nil {
				c.logger.Warn("plan consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event body and stores a notification for it
func (c *Consumer) HandleMessage(ctx context.Context, body []byte) error {
	var ev PlanEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.PlanID == "" {
		return errors.New("event has no plan id")
	}
	n := &models.Notification{
		Kind:      ev.Type,
		PlanID:    ev.PlanID,
		Message:   Message(ev),
		CreatedAt: ev.OccurredAt,
	}
	if err := c.store.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

// Message renders the human readable notification text for an event
func Message(ev PlanEvent) string {
	switch ev.Type {
	case PlanCreated:
		return fmt.Sprintf("Seating plan %q created: %d assigned, %d unassigned, score %d%%",
			ev.Name, ev.Assigned, ev.UnassignedEmployees, ev.OptimizationScore)
	case PlanActivated:
		return fmt.Sprintf("Seating plan %q is now active", ev.Name)
	default:
		return fmt.Sprintf("Seating plan %q: %s", ev.Name, ev.Type)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
