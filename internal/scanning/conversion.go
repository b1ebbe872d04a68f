package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"net/http"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const mimePDF = "application/pdf"

// NormalizeMimeType lowercases a Content-Type and drops any parameters
func NormalizeMimeType(contentType string) string {
	mimeType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// DetectMimeType sniffs the MIME type from the data itself
func DetectMimeType(data []byte) string {
	if isHEICFormat(data) {
		return "image/heic"
	}
	return NormalizeMimeType(http.DetectContentType(data))
}

// IsSupportedType reports whether a normalized MIME type can be scanned
func IsSupportedType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == mimePDF
}

// PrepareImage decodes an upload and re-encodes it as PNG.
// Decoding failures are reported as ErrUndecodable.
func PrepareImage(data []byte, contentType string) (*Image, error) {
	mimeType := NormalizeMimeType(contentType)
	if mimeType == "" {
		mimeType = DetectMimeType(data)
	}

	var (
		img image.Image
		err error
	)
	switch {
	case mimeType == mimePDF:
		img, err = pdfToImage(data)
	case isHEICFormat(data) || isHEICMimeType(mimeType):
		// Go's standard image package doesn't support HEIC (common on iPhones)
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	default:
		var format string
		img, format, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") {
				err = fmt.Errorf("unsupported image format, supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF: %w", err)
			} else {
				err = fmt.Errorf("decoding image: %w", err)
			}
			break
		}
		if format == "png" {
			bounds := img.Bounds()
			return &Image{Data: data, Width: bounds.Dx(), Height: bounds.Dy(), SourceType: mimeType}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	bounds := img.Bounds()
	return &Image{
		Data:       buf.Bytes(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		SourceType: mimeType,
	}, nil
}

// pdfToImage renders the first page of a PDF (most receipts are single page)
func pdfToImage(pdfData []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

// isHEICFormat checks for an ftyp box with a HEIC-related brand at offset 4
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
