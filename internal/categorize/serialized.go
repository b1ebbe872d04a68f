package categorize

import (
	"context"
	"sync"
)

// Serialized allows one Predict call at a time
type Serialized struct {
	mu    sync.Mutex
	inner Categorizer
}

// NewSerialized wraps inner with a lock
func NewSerialized(inner Categorizer) *Serialized {
	return &Serialized{inner: inner}
}

// Predict calls the wrapped Categorizer under the lock
func (s *Serialized) Predict(ctx context.Context, description string, amount float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Predict(ctx, description, amount)
}
