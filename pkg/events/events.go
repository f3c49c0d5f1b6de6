// Package events publishes seating plan lifecycle events to RabbitMQ and
// consumes them into admin notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Event types
const (
	PlanCreated   = "plan.created"
	PlanActivated = "plan.activated"
)

// DefaultQueue is the durable queue plan events are routed to
const DefaultQueue = "seating.plans"

// PlanEvent describes something that happened to a seating plan
type PlanEvent struct {
	Type                string    `json:"type"`
	PlanID              string    `json:"plan_id"`
	Name                string    `json:"name"`
	OptimizationScore   int       `json:"optimization_score"`
	Assigned            int       `json:"assigned"`
	UnassignedEmployees int       `json:"unassigned_employees"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// Publisher sends plan events somewhere
type Publisher interface {
	Publish(ctx context.Context, ev PlanEvent) error
}

// Noop drops every event
type Noop struct{}

// Publish implements Publisher
func (Noop) Publish(context.Context, PlanEvent) error { return nil }

// AMQPPublisher publishes events as persistent JSON messages on the default
// exchange, routed to a durable queue. Each publish opens its own connection.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *zap.Logger
}

// NewAMQPPublisher creates a publisher for the broker at url
func NewAMQPPublisher(url, queue string, logger *zap.Logger) *AMQPPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{url: url, queue: queue, logger: logger}
}

// Publish implements Publisher
func (p *AMQPPublisher) Publish(ctx context.Context, ev PlanEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
	if err != nil {
		p.logger.Warn("rabbitmq publish failed", zap.String("type", ev.Type), zap.Error(err))
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.logger.Debug("plan event published", zap.String("type", ev.Type), zap.String("plan_id", ev.PlanID))
	return nil
}
