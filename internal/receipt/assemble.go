package receipt

import (
	"errors"
	"strings"

	"github.com/zombor/expense-parser/internal/categorize"
	"github.com/zombor/expense-parser/internal/entity"
)

const partialWarning = "Some fields could not be extracted"

// assemble merges the stage outcomes into the response. Only the entity
// stage contributes a warning; a degraded category is visible as
// categorize.Uncategorized.
func assemble(text string, entities Outcome[entity.Record], category Outcome[string]) *ParseResult {
	record := entities.Value

	raw := record.RawEntities
	if raw == nil {
		raw = map[string][]string{}
	}
	currency := record.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}

	result := &ParseResult{
		Merchant:          record.Merchant,
		Amount:            record.Amount,
		Currency:          currency,
		Date:              record.Date,
		RawEntities:       raw,
		SuggestedCategory: category.Value,
		RawText:           text,
	}

	var fe *fieldsError
	switch {
	case errors.As(entities.Reason, &fe):
		result.Warning = partialWarning + ": " + strings.Join(fe.fields, ", ")
	case entities.IsDegraded():
		result.Warning = partialWarning
	}
	return result
}

// shortCircuitResult is returned when the image has no readable text
func shortCircuitResult() *ParseResult {
	merchant := ""
	amount := 0.0
	return &ParseResult{
		Merchant:          &merchant,
		Amount:            &amount,
		Currency:          entity.DefaultCurrency,
		RawEntities:       map[string][]string{},
		SuggestedCategory: categorize.Uncategorized,
		Warning:           ShortCircuitWarning,
	}
}
