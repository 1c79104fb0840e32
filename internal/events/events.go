// Package events publishes order lifecycle notifications. Delivery is best
// effort: callers log publishing errors and carry on.
package events

import (
	"context"
	"log"
	"time"

	"optics-shop/internal/core"
)

type EventType string

const (
	OrderCreated       EventType = "order.created"
	OrderUpdated       EventType = "order.updated"
	OrderDeleted       EventType = "order.deleted"
	OrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is the payload published for every order mutation.
type OrderEvent struct {
	Type        EventType        `json:"type"`
	OrderID     int              `json:"order_id"`
	OrderNumber string           `json:"order_number,omitempty"`
	ClientName  string           `json:"client_name,omitempty"`
	Status      core.OrderStatus `json:"status,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewOrderEvent builds an event of type t for o stamped with at.
func NewOrderEvent(t EventType, o core.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        t,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		ClientName:  o.ClientName,
		Status:      o.Status,
		Timestamp:   at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// LogPublisher writes events to the standard logger. Used when no broker is
// configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (LogPublisher) Publish(ctx context.Context, e OrderEvent) error {
	log.Printf("event %s order=%d number=%s status=%s", e.Type, e.OrderID, e.OrderNumber, e.Status)
	return nil
}

func (LogPublisher) Close() error { return nil }
