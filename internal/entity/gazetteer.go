package entity

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var defaultGazetteer []byte

// MerchantEntry is a known merchant and the ways it is printed on receipts
type MerchantEntry struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
}

// Gazetteer recognizes known merchant names, longest variant first
type Gazetteer struct {
	variants map[string]struct{} // lowercase
	pattern  *regexp.Regexp
}

type gazetteerFile struct {
	Merchants []MerchantEntry `yaml:"merchants"`
}

// DefaultGazetteer returns the gazetteer compiled into the binary
func DefaultGazetteer() (*Gazetteer, error) {
	return ParseGazetteer(defaultGazetteer)
}

// LoadGazetteer reads a gazetteer YAML file
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer: %w", err)
	}
	return ParseGazetteer(data)
}

// ParseGazetteer parses gazetteer YAML
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var file gazetteerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling gazetteer: %w", err)
	}
	return NewGazetteer(file.Merchants)
}

// NewGazetteer builds a gazetteer from entries
func NewGazetteer(entries []MerchantEntry) (*Gazetteer, error) {
	g := &Gazetteer{variants: make(map[string]struct{})}

	var variants []string
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("gazetteer entry without a name")
		}
		for _, v := range append([]string{name}, e.Variants...) {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, seen := g.variants[key]; !seen {
				g.variants[key] = struct{}{}
				variants = append(variants, key)
			}
		}
	}
	if len(variants) == 0 {
		return g, nil
	}

	// Longest first so the alternation prefers the longest phrase at a position
	sort.SliceStable(variants, func(i, j int) bool {
		return len(variants[i]) > len(variants[j])
	})
	quoted := make([]string, len(variants))
	for i, v := range variants {
		quoted[i] = regexp.QuoteMeta(v)
	}
	g.pattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
	return g, nil
}

// Len returns the number of recognized variants
func (g *Gazetteer) Len() int {
	return len(g.variants)
}

// find returns the known merchants in line, as printed, with their byte offsets
func (g *Gazetteer) find(line string) []span {
	if g == nil || g.pattern == nil {
		return nil
	}
	var spans []span
	for _, idx := range g.pattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := idx[2], idx[3]
		spans = append(spans, span{
			start: start,
			end:   end,
			text:  line[start:end],
		})
	}
	return spans
}
