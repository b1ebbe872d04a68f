package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zombor/expense-parser/internal/categorize"
	"github.com/zombor/expense-parser/internal/entity"
	"github.com/zombor/expense-parser/internal/scanning"
)

// EntityExtractor builds an entity record from receipt text
type EntityExtractor interface {
	Extract(ctx context.Context, text string) entity.Result
}

// Stage names used in logs and metrics
const (
	stageEntities       = "entities"
	stageCategorization = "categorization"
)

// Service runs the receipt parsing pipeline
type Service struct {
	extractor   scanning.TextExtractor
	entities    EntityExtractor
	categorizer categorize.Categorizer
	limits      Limits
}

// NewService creates a new Service with default upload limits
func NewService(extractor scanning.TextExtractor, entities EntityExtractor, categorizer categorize.Categorizer) *Service {
	return NewServiceWithLimits(extractor, entities, categorizer, DefaultLimits())
}

// NewServiceWithLimits creates a new Service with custom upload limits
func NewServiceWithLimits(extractor scanning.TextExtractor, entities EntityExtractor, categorizer categorize.Categorizer, limits Limits) *Service {
	return &Service{
		extractor:   extractor,
		entities:    entities,
		categorizer: categorizer,
		limits:      limits,
	}
}

// Ready reports whether a text engine is configured
func (s *Service) Ready() bool {
	return s.extractor != nil
}

// Limits returns the upload limits the service enforces
func (s *Service) Limits() Limits {
	return s.limits
}

// ParseReceipt extracts expense data from an uploaded receipt image.
//
// Only two things fail the request: a *ValidationError for uploads that
// are rejected or cannot be decoded, and ErrEngineUnavailable when the
// text engine fails. Every later stage falls back to a default instead.
func (s *Service) ParseReceipt(ctx context.Context, data []byte, contentType string) (*ParseResult, error) {
	logger := loggerFrom(ctx)
	run := newPipelineRun(logger)

	if verr := validate(data, contentType, s.limits); verr != nil {
		logger.Info("Rejected upload", "reason", verr.Reason, "file_size", len(data), "content_type", contentType)
		run.advance(StateFailed)
		return nil, verr
	}

	text, err := s.extractText(ctx, data, contentType)
	if err != nil {
		logger.Error("Failed to extract text",
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		run.advance(StateFailed)
		return nil, err
	}
	run.advance(StateTextExtracted)

	if strings.TrimSpace(text) == "" {
		logger.Info("No text detected")
		run.advance(StateShortCircuitEmpty)
		return shortCircuitResult(), nil
	}

	entities := s.extractEntities(ctx, text)
	if entities.IsDegraded() {
		logger.Warn("Entity extraction degraded", "error", entities.Reason)
		stageDegradations.WithLabelValues(stageEntities).Inc()
	}
	run.advance(StateEntitiesExtracted)

	category := s.categorize(ctx, text, entities.Value.Amount)
	if category.IsDegraded() {
		logger.Warn("Categorization degraded", "error", category.Reason)
		stageDegradations.WithLabelValues(stageCategorization).Inc()
	}
	run.advance(StateCategorized)

	result := assemble(text, entities, category)
	run.advance(StateAssembled)
	return result, nil
}

// extractText decodes the upload and runs the text engine over it
func (s *Service) extractText(ctx context.Context, data []byte, contentType string) (text string, err error) {
	img, err := scanning.PrepareImage(data, contentType)
	if err != nil {
		return "", &ValidationError{
			Reason:  ReasonUndecodable,
			Message: "Could not read the image. Please upload a valid image file",
			Err:     err,
		}
	}
	if img.Empty() {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrEngineUnavailable, r)
		}
	}()

	raw, err := s.extractor.ExtractText(ctx, img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}
	return scanning.NormalizeText(raw), nil
}

// fieldsError names the fields a degraded entity stage could not produce
type fieldsError struct {
	fields []string
	err    error
}

func (e *fieldsError) Error() string {
	return fmt.Sprintf("could not extract %s: %v", strings.Join(e.fields, ", "), e.err)
}

func (e *fieldsError) Unwrap() error {
	return e.err
}

func (s *Service) extractEntities(ctx context.Context, text string) (out Outcome[entity.Record]) {
	defer func() {
		if r := recover(); r != nil {
			out = Degraded(entity.DefaultRecord(), &fieldsError{
				fields: []string{entity.FieldMerchant, entity.FieldAmount, entity.FieldDate},
				err:    fmt.Errorf("panic: %v", r),
			})
		}
	}()

	result := s.entities.Extract(ctx, text)
	if !result.Degraded() {
		return Ok(result.Record)
	}

	errs := make([]error, 0, len(result.Failures))
	for _, f := range result.Failures {
		errs = append(errs, f)
	}
	return Degraded(result.Record, &fieldsError{fields: result.Fields(), err: errors.Join(errs...)})
}

func (s *Service) categorize(ctx context.Context, text string, amount *float64) (out Outcome[string]) {
	defer func() {
		if r := recover(); r != nil {
			out = Degraded(categorize.Uncategorized, fmt.Errorf("panic: %v", r))
		}
	}()

	var value float64
	if amount != nil {
		value = *amount
	}

	label, err := s.categorizer.Predict(ctx, categorize.Describe(text), value)
	if err != nil {
		return Degraded(categorize.Uncategorized, fmt.Errorf("predicting category: %w", err))
	}
	if strings.TrimSpace(label) == "" {
		return Degraded(categorize.Uncategorized, errors.New("empty category label"))
	}
	return Ok(label)
}
