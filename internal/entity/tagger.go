package entity

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// orgSuffixes end the name of a business: "Big Bazaar Retail Ltd", "Sharma Traders"
var orgSuffixes = map[string]bool{
	"ltd": true, "limited": true, "pvt": true, "inc": true, "llc": true, "llp": true,
	"corp": true, "corporation": true, "co": true, "company": true, "gmbh": true, "plc": true,
	"mart": true, "market": true, "supermarket": true, "store": true, "stores": true, "shop": true,
	"restaurant": true, "cafe": true, "café": true, "hotel": true, "dhaba": true, "bakery": true,
	"pharmacy": true, "chemist": true, "chemists": true, "medicals": true, "bazaar": true,
	"traders": true, "enterprises": true, "foods": true, "kitchen": true, "sweets": true,
}

// camelSuffixes may be glued to a name: "SuperMart", "FreshMarket"
var camelSuffixes = []string{"Mart", "Market", "Store", "Shop", "Foods", "Bazaar"}

// leadingNoise are capitalized words that open a header but are not part of the name
var leadingNoise = map[string]bool{
	"welcome": true, "to": true, "at": true, "from": true, "thank": true, "thanks": true,
	"you": true, "for": true, "visiting": true, "shopping": true, "total": true, "paid": true,
}

var (
	capitalizedRun = regexp.MustCompile(`[\p{Lu}][\p{L}\p{N}&'.-]*(?:[ \t]+[\p{Lu}][\p{L}\p{N}&'.-]*)*`)
	honorificName  = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Shri|Smt)\.?[ \t]+([\p{Lu}][\p{Ll}]+(?:[ \t]+[\p{Lu}][\p{Ll}]+){0,2})`)
)

// maxOrgWords bounds how far back from a suffix an organization name reaches
const maxOrgWords = 4

type span struct {
	start, end int
	text       string
}

// RuleTagger recognizes receipt entities with a merchant gazetteer and
// capitalization rules. It is safe for concurrent use.
type RuleTagger struct {
	gazetteer *Gazetteer
}

// NewRuleTagger creates a tagger; gazetteer may be nil
func NewRuleTagger(gazetteer *Gazetteer) *RuleTagger {
	return &RuleTagger{gazetteer: gazetteer}
}

// Tag labels ORG, PERSON, DATE and MONEY entities in order of appearance
func (t *RuleTagger) Tag(ctx context.Context, text string) (map[string][]string, error) {
	entities := make(map[string][]string)

	for _, line := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, s := range t.organizations(line) {
			entities[LabelOrg] = append(entities[LabelOrg], s.text)
		}
		for _, m := range honorificName.FindAllStringSubmatch(line, -1) {
			entities[LabelPerson] = append(entities[LabelPerson], m[1])
		}
	}

	if dates := FindDates(text); len(dates) > 0 {
		entities[LabelDate] = dates
	}
	for _, m := range FindAmounts(text) {
		entities[LabelMoney] = append(entities[LabelMoney], strings.TrimSpace(m.Text))
	}

	return entities, nil
}

// organizations merges gazetteer hits with suffix-rule hits, leftmost first,
// dropping any span that overlaps one already taken.
func (t *RuleTagger) organizations(line string) []span {
	candidates := append(t.gazetteer.find(line), suffixOrganizations(line)...)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].end > candidates[j].end
	})

	var kept []span
	lastEnd := -1
	for _, c := range candidates {
		if c.start < lastEnd {
			continue
		}
		kept = append(kept, c)
		lastEnd = c.end
	}
	return kept
}

// suffixOrganizations finds capitalized phrases ending in an organization suffix
func suffixOrganizations(line string) []span {
	var spans []span
	for _, idx := range capitalizedRun.FindAllStringIndex(line, -1) {
		words := wordSpans(line, idx[0], idx[1])

		last := -1
		for i, w := range words {
			if isOrgSuffix(w.text) {
				last = i
			}
		}

		switch {
		case last > 0:
			first := max(0, last-maxOrgWords+1)
			for first < last && leadingNoise[strings.ToLower(trimWord(words[first].text))] {
				first++
			}
			if first == last {
				continue
			}
			spans = append(spans, joinWords(line, words[first:last+1]))
		default:
			for _, w := range words {
				if hasCamelSuffix(trimWord(w.text)) {
					w.text = trimWord(w.text)
					spans = append(spans, w)
				}
			}
		}
	}
	return spans
}

func wordSpans(line string, start, end int) []span {
	var words []span
	i := start
	for i < end {
		for i < end && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		j := i
		for j < end && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		if j > i {
			words = append(words, span{start: i, end: j, text: line[i:j]})
		}
		i = j
	}
	return words
}

func joinWords(line string, words []span) span {
	start, end := words[0].start, words[len(words)-1].end
	text := strings.TrimRight(line[start:end], ",-")
	return span{start: start, end: start + len(text), text: text}
}

func trimWord(word string) string {
	return strings.TrimRight(word, ".,'-&")
}

func isOrgSuffix(word string) bool {
	return orgSuffixes[strings.ToLower(trimWord(word))]
}

// hasCamelSuffix matches words like "SuperMart": a suffix starting with a
// capital letter, glued to a lowercase-ending prefix.
func hasCamelSuffix(word string) bool {
	for _, suffix := range camelSuffixes {
		if len(word) <= len(suffix) || !strings.HasSuffix(word, suffix) {
			continue
		}
		prefix := []rune(word[:len(word)-len(suffix)])
		if unicode.IsLower(prefix[len(prefix)-1]) {
			return true
		}
	}
	return false
}
