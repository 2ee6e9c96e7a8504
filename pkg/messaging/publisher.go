// Package messaging defines the domain event abstraction shared by publishers and subscribers.
package messaging

import (
	"context"
)

const (
	StockAdjustedSubject = "inventory.stock.adjusted"
	StockLowSubject      = "inventory.stock.low"
	SaleRecordedSubject  = "sales.recorded"
)

// StreamSubjects lists every subject the service publishes to, used when provisioning the stream.
var StreamSubjects = []string{StockAdjustedSubject, StockLowSubject, SaleRecordedSubject}

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
