// Package categorize suggests an expense category for a receipt.
package categorize

import (
	"context"
	"errors"
	"strings"
)

// Uncategorized is reported whenever no category could be predicted
const Uncategorized = "Uncategorized"

// DescriptionLimit is the number of characters of receipt text passed to a Categorizer
const DescriptionLimit = 300

// ErrNoMatch is returned when a model has no opinion about a description
var ErrNoMatch = errors.New("no category matched")

// Categorizer predicts a category label from a short description and an amount
type Categorizer interface {
	Predict(ctx context.Context, description string, amount float64) (string, error)
}

// Describe cuts text down to the description a Categorizer expects
func Describe(text string) string {
	runes := []rune(text)
	if len(runes) > DescriptionLimit {
		runes = runes[:DescriptionLimit]
	}
	return strings.TrimSpace(string(runes))
}
