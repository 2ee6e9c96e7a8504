package store

import (
	"context"
	"sync"
)

// slot holds one collection and the mutex guarding it.
type slot struct {
	mu   sync.RWMutex
	data []byte
}

// MemoryStore implements RecordStore using process memory.
type MemoryStore struct {
	slots map[Collection]*slot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	slots := make(map[Collection]*slot, len(Collections))
	for _, c := range Collections {
		slots[c] = &slot{}
	}
	return &MemoryStore{slots: slots}
}

// Load returns a copy of the collection content.
func (s *MemoryStore) Load(_ context.Context, c Collection) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sl := s.slots[c]
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return clone(sl.data), nil
}

// Save replaces the collection content with a copy of data.
func (s *MemoryStore) Save(_ context.Context, c Collection, data []byte) error {
	if err := c.Validate(); err != nil {
		return err
	}
	sl := s.slots[c]
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.data = clone(data)
	return nil
}

// Update locks the named collections in Collections order, so concurrent updates
// sharing a collection are serialised without deadlock.
func (s *MemoryStore) Update(ctx context.Context, cs []Collection, fn func(Snapshot) (Snapshot, error)) error {
	ordered, err := lockOrder(cs)
	if err != nil {
		return err
	}
	for _, c := range ordered {
		s.slots[c].mu.Lock()
	}
	defer func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			s.slots[ordered[i]].mu.Unlock()
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	current := make(Snapshot, len(ordered))
	for _, c := range ordered {
		current[c] = clone(s.slots[c].data)
	}
	out, err := fn(current)
	if err != nil {
		return err
	}
	if err := checkWrites(ordered, out); err != nil {
		return err
	}
	for c, data := range out {
		s.slots[c].data = clone(data)
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
