package receipt

import (
	"errors"
	"fmt"
)

// ShortCircuitWarning is attached when the engine found no text at all
const ShortCircuitWarning = "No text detected in image. Image quality may be poor."

// ParseResult is the structured interpretation of one receipt image
type ParseResult struct {
	Merchant          *string             `json:"merchant"`
	Amount            *float64            `json:"amount"`
	Currency          string              `json:"currency"`
	Date              *string             `json:"date"`
	RawEntities       map[string][]string `json:"raw_entities"`
	SuggestedCategory string              `json:"suggested_category"`
	RawText           string              `json:"raw_text"`
	Warning           string              `json:"warning,omitempty"`
}

// ErrEngineUnavailable is returned when the text engine fails. No partial
// result is possible without text.
var ErrEngineUnavailable = errors.New("text extraction engine unavailable")

// Reason classifies a rejected upload
type Reason string

const (
	ReasonOversized       Reason = "oversized"
	ReasonUnsupportedType Reason = "unsupported_type"
	ReasonEmpty           Reason = "empty"
	ReasonUndecodable     Reason = "undecodable"
)

// ValidationError is returned for uploads that cannot be processed
type ValidationError struct {
	Reason  Reason
	Message string // safe to show to the uploader
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
