package scanning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

const textBucketName = "ocr_text"

// TextCache stores recognized text keyed by image content
type TextCache struct {
	db *bbolt.DB
}

// OpenTextCache opens (or creates) a bbolt file for cached transcriptions
func OpenTextCache(path string) (*TextCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(textBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &TextCache{db: db}, nil
}

// Get returns the cached text for key, if any
func (c *TextCache) Get(key string) (string, bool, error) {
	var (
		text  string
		found bool
	)
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(textBucketName)).Get([]byte(key))
		if data != nil {
			// data is only valid for the life of the transaction
			text = string(data)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return text, found, nil
}

// Put stores text under key
func (c *TextCache) Put(key string, text string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(textBucketName)).Put([]byte(key), []byte(text))
	})
}

// Close closes the database connection
func (c *TextCache) Close() error {
	return c.db.Close()
}

// CachedExtractor serves repeated images from a TextCache instead of the engine
type CachedExtractor struct {
	inner TextExtractor
	cache *TextCache
}

// NewCachedExtractor wraps inner with cache
func NewCachedExtractor(inner TextExtractor, cache *TextCache) *CachedExtractor {
	return &CachedExtractor{inner: inner, cache: cache}
}

// ExtractText checks the cache before calling the wrapped engine
func (c *CachedExtractor) ExtractText(ctx context.Context, img *Image) (string, error) {
	key := imageKey(img)

	text, found, err := c.cache.Get(key)
	if err != nil {
		slog.Warn("Failed to read OCR cache", "key", key, "error", err)
	} else if found {
		slog.Debug("OCR cache hit", "key", key)
		return text, nil
	}

	text, err = c.inner.ExtractText(ctx, img)
	if err != nil {
		return "", err
	}

	if err := c.cache.Put(key, text); err != nil {
		slog.Warn("Failed to write OCR cache", "key", key, "error", err)
	}
	return text, nil
}

// Close closes the wrapped engine and the cache
func (c *CachedExtractor) Close() error {
	return errors.Join(c.inner.Close(), c.cache.Close())
}

func imageKey(img *Image) string {
	sum := sha256.Sum256(img.Data)
	return hex.EncodeToString(sum[:])
}
