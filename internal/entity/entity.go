// Package entity turns recognized receipt text into a structured record.
//
// Merchant, amount and date are resolved independently. Each has its own
// ordered fallbacks and a failure in one never affects the other two.
package entity

import (
	"context"
	"fmt"
	"time"
)

// Entity labels produced by taggers
const (
	LabelOrg    = "ORG"
	LabelPerson = "PERSON"
	LabelDate   = "DATE"
	LabelMoney  = "MONEY"
)

// DefaultCurrency is used whenever no currency marker is printed
const DefaultCurrency = "INR"

// Record is the structured interpretation of a receipt's text
type Record struct {
	Merchant    *string             `json:"merchant"`
	Amount      *float64            `json:"amount"` // never negative
	Currency    string              `json:"currency"`
	Date        *string             `json:"date"` // ISO 8601
	RawEntities map[string][]string `json:"raw_entities"`
}

// DefaultRecord is the record with every optional field absent
func DefaultRecord() Record {
	return Record{
		Currency:    DefaultCurrency,
		RawEntities: map[string][]string{},
	}
}

// Tagger finds named entities in text, keyed by label, in order of appearance
type Tagger interface {
	Tag(ctx context.Context, text string) (map[string][]string, error)
}

// DateParser finds a date in text. With fuzzy set, tokens that are not
// part of a date are ignored.
type DateParser interface {
	Parse(text string, fuzzy bool) (time.Time, error)
}

// Failure describes a sub-extractor that could not produce its field
type Failure struct {
	Field string
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Field, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is a Record plus the sub-extractors that failed while building it
type Result struct {
	Record   Record
	Failures []Failure
}

// Degraded reports whether any sub-extractor failed
func (r Result) Degraded() bool {
	return len(r.Failures) > 0
}

// Fields lists the failed fields in order
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		fields = append(fields, f.Field)
	}
	return fields
}
