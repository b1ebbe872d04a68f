package categorize

import (
	"context"
	"fmt"
	"sync"
)

// Lazy loads a Categorizer on first use. A failed load is not retried:
// every Predict returns the load error.
type Lazy struct {
	load func() (Categorizer, error)
}

// NewLazy wraps load so it runs at most once
func NewLazy(load func() (Categorizer, error)) *Lazy {
	return &Lazy{load: sync.OnceValues(load)}
}

func (l *Lazy) Predict(ctx context.Context, description string, amount float64) (string, error) {
	model, err := l.load()
	if err != nil {
		return "", fmt.Errorf("loading category model: %w", err)
	}
	return model.Predict(ctx, description, amount)
}
