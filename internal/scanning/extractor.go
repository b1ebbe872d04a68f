package scanning

import (
	"context"
	"errors"
)

// ErrUndecodable is returned when the uploaded bytes are not an image we can decode
var ErrUndecodable = errors.New("image could not be decoded")

// Image is a decoded receipt image, re-encoded as PNG for the text engines
type Image struct {
	Data       []byte // PNG encoded
	Width      int
	Height     int
	SourceType string // normalized MIME type the upload arrived as
}

// Empty reports whether the decoded image has no pixels
func (i *Image) Empty() bool {
	return i.Width == 0 || i.Height == 0
}

// TextExtractor defines the interface for text recognition engines
type TextExtractor interface {
	// ExtractText returns the raw text printed on the receipt. An image
	// without any readable text yields an empty string, not an error.
	ExtractText(ctx context.Context, img *Image) (string, error)
	// Close closes the engine and releases resources
	Close() error
}
