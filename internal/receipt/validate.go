package receipt

import (
	"fmt"

	"github.com/zombor/expense-parser/internal/scanning"
)

// Limits bound what an upload may be
type Limits struct {
	MaxImageBytes int64
}

// DefaultLimits allows uploads up to 10MB
func DefaultLimits() Limits {
	return Limits{MaxImageBytes: 10 << 20}
}

// validate checks size, then type, then emptiness. An empty content type
// is sniffed from the data.
func validate(data []byte, contentType string, limits Limits) *ValidationError {
	if int64(len(data)) > limits.MaxImageBytes {
		return &ValidationError{
			Reason:  ReasonOversized,
			Message: tooLargeMessage(limits.MaxImageBytes),
		}
	}

	mimeType := scanning.NormalizeMimeType(contentType)
	if mimeType == "" && len(data) > 0 {
		mimeType = scanning.DetectMimeType(data)
	}
	if mimeType != "" && !scanning.IsSupportedType(mimeType) {
		return &ValidationError{
			Reason:  ReasonUnsupportedType,
			Message: "Invalid file type. Please upload an image",
		}
	}

	if len(data) == 0 {
		return &ValidationError{
			Reason:  ReasonEmpty,
			Message: "Empty file uploaded",
		}
	}
	return nil
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("File too large. Maximum size is %dMB", limit>>20)
}
