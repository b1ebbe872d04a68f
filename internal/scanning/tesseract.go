package scanning

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Tesseract implements the TextExtractor interface by shelling out to the tesseract CLI
type Tesseract struct {
	binary    string
	languages string
	timeout   time.Duration
}

// NewTesseract locates the tesseract binary. languages is passed to -l (e.g. "eng" or "eng+hin").
func NewTesseract(binary string, languages string) (*Tesseract, error) {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("locating tesseract binary: %w", err)
	}

	return &Tesseract{
		binary:    path,
		languages: languages,
		timeout:   60 * time.Second,
	}, nil
}

// ExtractText writes the image to a temp file and reads tesseract's stdout
func (t *Tesseract) ExtractText(ctx context.Context, img *Image) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	tmpFile, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(img.Data); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp image: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, tmpFile.Name(), "stdout", "-l", t.languages)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// Close is a no-op, each call runs its own process
func (t *Tesseract) Close() error {
	return nil
}
