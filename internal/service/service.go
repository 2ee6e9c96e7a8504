// Package service provides the business logic of the cafe: the product and customer
// catalog, the inventory and sales ledgers, and the reports derived from them.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const meterName = "wingscafe"

// Option customises the clock and id source of a service. Used by tests.
type Option func(*base)

// WithClock sets the time source used to stamp transactions and sales.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithIDGenerator sets the id source used for new records.
func WithIDGenerator(newID func() string) Option {
	return func(b *base) { b.newID = newID }
}

// base carries what every service needs besides its store.
type base struct {
	now      func() time.Time
	newID    func() string
	validate *validator.Validate
}

func newBase(opts []Option) base {
	b := base{
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		validate: NewValidator(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// check validates a dto and wraps any failure in ErrInvalidInput.
func (b base) check(dto any) error {
	if err := b.validate.Struct(dto); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	return nil
}

// NewValidator returns a validator that understands decimal amounts,
// so `min=0` on a decimal.Decimal field compares its numeric value.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// publish sends an event after a committed ledger operation. Failures are logged only.
func publish(ctx context.Context, publisher messaging.Publisher, event messaging.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", slog.String("subject", event.Subject()), slog.String("error", err.Error()))
	}
}

// newest returns at most limit elements of a newest-first log. limit <= 0 returns all.
func newest[T any](records []T, limit int) []T {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
