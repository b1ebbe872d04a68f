package scanning

import (
	"context"
	"sync"
)

// Serialized allows one ExtractText call at a time, for engines that
// are not safe for concurrent use.
type Serialized struct {
	mu    sync.Mutex
	inner TextExtractor
}

// NewSerialized wraps inner with a lock
func NewSerialized(inner TextExtractor) *Serialized {
	return &Serialized{inner: inner}
}

// ExtractText calls the wrapped engine under the lock
func (s *Serialized) ExtractText(ctx context.Context, img *Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ExtractText(ctx, img)
}

// Close waits for any call in flight, then closes the wrapped engine
func (s *Serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Close()
}
