// Package store provides keyed-collection persistence for the cafe's records.
package store

import (
	"context"
	"fmt"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
)

// Collection names one of the fixed record collections.
type Collection string

const (
	Products     Collection = "products"
	Customers    Collection = "customers"
	Sales        Collection = "sales"
	Transactions Collection = "transactions"
)

// Collections lists every known collection. The order is the lock order used by Update.
var Collections = []Collection{Products, Customers, Sales, Transactions}

// Validate returns ErrUnknownCollection for any name outside Collections.
func (c Collection) Validate() error {
	for _, known := range Collections {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%q: %w", string(c), apperrors.ErrUnknownCollection)
}

// Snapshot holds the raw JSON content of a set of collections.
// A nil entry means the collection has never been written.
type Snapshot map[Collection][]byte

// RecordStore is an interface for collection storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type RecordStore interface {
	// Load returns the raw content of a collection, or nil if it has never been saved.
	Load(ctx context.Context, c Collection) ([]byte, error)

	// Save replaces the whole content of a collection.
	Save(ctx context.Context, c Collection, data []byte) error

	// Update runs fn in a critical section over the named collections.
	// fn receives their current content and returns the collections to replace.
	// Either every returned collection is written or none is.
	Update(ctx context.Context, cs []Collection, fn func(Snapshot) (Snapshot, error)) error
}

// lockOrder returns the distinct collections of cs sorted by their position in Collections.
func lockOrder(cs []Collection) ([]Collection, error) {
	seen := make(map[Collection]bool, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		seen[c] = true
	}
	ordered := make([]Collection, 0, len(seen))
	for _, c := range Collections {
		if seen[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// checkWrites verifies that fn only returned collections it was allowed to touch.
func checkWrites(locked []Collection, out Snapshot) error {
	for c := range out {
		allowed := false
		for _, l := range locked {
			if c == l {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("collection %q is outside the update: %w", string(c), apperrors.ErrUnknownCollection)
		}
	}
	return nil
}
