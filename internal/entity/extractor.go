package entity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/sourcegraph/conc"
)

// Field names reported in Failures
const (
	FieldEntities = "entities"
	FieldMerchant = "merchant"
	FieldAmount   = "amount"
	FieldDate     = "date"
)

var fieldOrder = map[string]int{FieldEntities: 0, FieldMerchant: 1, FieldAmount: 2, FieldDate: 3}

// Extractor builds a Record from receipt text
type Extractor struct {
	tagger Tagger
	dates  DateParser
}

// NewExtractor creates an Extractor over the given collaborators
func NewExtractor(tagger Tagger, dates DateParser) *Extractor {
	return &Extractor{tagger: tagger, dates: dates}
}

// Extract tags the text once, then resolves merchant, amount and date
// concurrently. A failing resolver leaves its field absent and is
// reported in the result; it never stops the others.
func (e *Extractor) Extract(ctx context.Context, text string) Result {
	record := DefaultRecord()

	var (
		mu       sync.Mutex
		failures []Failure
	)
	fail := func(f *Failure) {
		if f == nil {
			return
		}
		slog.Warn("Entity sub-extractor failed", "field", f.Field, "error", f.Err)
		mu.Lock()
		failures = append(failures, *f)
		mu.Unlock()
	}

	var entities map[string][]string
	fail(capture(FieldEntities, func() error {
		tagged, err := e.tagger.Tag(ctx, text)
		if err != nil {
			return fmt.Errorf("tagging entities: %w", err)
		}
		entities = tagged
		return nil
	}))
	if entities != nil {
		record.RawEntities = entities
	}

	var (
		merchant *string
		amount   *float64
		currency = DefaultCurrency
		date     *string
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		fail(capture(FieldMerchant, func() error {
			if m, ok := resolveMerchant(text, entities, e.dates); ok {
				merchant = &m
			}
			return nil
		}))
	})
	wg.Go(func() {
		fail(capture(FieldAmount, func() error {
			var err error
			amount, currency, err = resolveAmount(text)
			return err
		}))
	})
	wg.Go(func() {
		fail(capture(FieldDate, func() error {
			date = resolveDate(text, e.dates)
			return nil
		}))
	})
	wg.Wait()

	record.Merchant = merchant
	record.Amount = amount
	record.Currency = currency
	record.Date = date

	sort.Slice(failures, func(i, j int) bool {
		return fieldOrder[failures[i].Field] < fieldOrder[failures[j].Field]
	})
	return Result{Record: record, Failures: failures}
}

// capture runs fn, turning an error or a panic into a Failure for field
func capture(field string, fn func() error) (failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = &Failure{Field: field, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &Failure{Field: field, Err: err}
	}
	return nil
}
