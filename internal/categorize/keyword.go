package categorize

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultCategories []byte

// Category is one label of a KeywordModel
type Category struct {
	Name      string   `yaml:"name"`
	Keywords  []string `yaml:"keywords"`
	MinAmount *float64 `yaml:"min_amount,omitempty"`
	MaxAmount *float64 `yaml:"max_amount,omitempty"`
}

func (c Category) inBand(amount float64) bool {
	if c.MinAmount == nil && c.MaxAmount == nil {
		return false
	}
	if c.MinAmount != nil && amount < *c.MinAmount {
		return false
	}
	if c.MaxAmount != nil && amount > *c.MaxAmount {
		return false
	}
	return true
}

// KeywordModel scores categories by the keywords found in a description
type KeywordModel struct {
	Fallback   string     `yaml:"fallback"`
	Categories []Category `yaml:"categories"`
}

// DefaultKeywordModel returns the model compiled into the binary
func DefaultKeywordModel() (*KeywordModel, error) {
	return ParseKeywordModel(defaultCategories)
}

// LoadKeywordModel reads a model from a YAML file
func LoadKeywordModel(path string) (*KeywordModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category model: %w", err)
	}
	return ParseKeywordModel(data)
}

// ParseKeywordModel parses model YAML
func ParseKeywordModel(data []byte) (*KeywordModel, error) {
	var m KeywordModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling category model: %w", err)
	}
	if len(m.Categories) == 0 {
		return nil, fmt.Errorf("category model has no categories")
	}
	for i, c := range m.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		for j, k := range c.Keywords {
			m.Categories[i].Keywords[j] = strings.ToLower(strings.TrimSpace(k))
		}
	}
	return &m, nil
}

// Predict returns the best scoring category. Earlier categories win ties.
func (m *KeywordModel) Predict(ctx context.Context, description string, amount float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text := strings.ToLower(description)

	best, bestScore := "", 0.0
	for _, c := range m.Categories {
		hits := 0
		for _, k := range c.Keywords {
			if k != "" && strings.Contains(text, k) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		score := float64(hits)
		if c.inBand(amount) {
			score += 0.5
		}
		if score > bestScore {
			best, bestScore = c.Name, score
		}
	}

	if best != "" {
		return best, nil
	}
	if m.Fallback != "" {
		return m.Fallback, nil
	}
	return "", ErrNoMatch
}

// Labels lists every label Predict can return
func (m *KeywordModel) Labels() []string {
	labels := make([]string, 0, len(m.Categories)+1)
	for _, c := range m.Categories {
		labels = append(labels, c.Name)
	}
	if m.Fallback != "" {
		labels = append(labels, m.Fallback)
	}
	return labels
}
