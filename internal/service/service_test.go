package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	subjects := make([]string, len(p.events))
	for i, e := range p.events {
		subjects[i] = e.Subject()
	}
	return subjects
}

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (f failingStore) Load(context.Context, store.Collection) ([]byte, error) { return nil, f.err }
func (f failingStore) Save(context.Context, store.Collection, []byte) error   { return f.err }
func (f failingStore) Update(context.Context, []store.Collection, func(store.Snapshot) (store.Snapshot, error)) error {
	return f.err
}

var errBackend = errors.New("connection refused")

func testOptions() []Option {
	var mu sync.Mutex
	n := 0
	return []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	}
}

func seedProducts(t *testing.T, st store.RecordStore, products ...store.Product) {
	t.Helper()
	require.NoError(t, store.SaveRecords(context.Background(), st, store.Products, products))
}

func seedCustomers(t *testing.T, st store.RecordStore, customers ...store.Customer) {
	t.Helper()
	require.NoError(t, store.SaveRecords(context.Background(), st, store.Customers, customers))
}

func loadProducts(t *testing.T, st store.RecordStore) []store.Product {
	t.Helper()
	products, err := store.LoadRecords[store.Product](context.Background(), st, store.Products)
	require.NoError(t, err)
	return products
}

func burger(quantity int) store.Product {
	return store.Product{ID: "p1", Name: "Burger", Category: store.CategoryFood, Price: decimal.RequireFromString("10.00"), Quantity: quantity}
}

var thabo = store.Customer{ID: "c1", Name: "Thabo", Email: "thabo@example.com"}
