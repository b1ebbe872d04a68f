package entity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minMerchantLineLength is the length a header line must exceed to count as a merchant
const minMerchantLineLength = 5

var (
	bareNumber     = regexp.MustCompile(`^\d+(\.\d{2})?$`)
	currencyAffix  = regexp.MustCompile(`(?i)^(?:` + currencyWords + `|` + currencySymbols + `)|(?:` + currencyWords + `|` + currencySymbols + `)$`)
	separatorStrip = strings.NewReplacer(",", "", ".", "", " ", "")
)

// resolveMerchant prefers an organization, then a person, then the first
// line of the receipt that looks like a name.
func resolveMerchant(text string, entities map[string][]string, dates DateParser) (string, bool) {
	return firstOf(
		firstEntity(entities, LabelOrg),
		firstEntity(entities, LabelPerson),
		firstNameLine(text, dates),
	)
}

func firstEntity(entities map[string][]string, label string) step[string] {
	return func() (string, bool) {
		for _, surface := range entities[label] {
			if surface = strings.TrimSpace(surface); surface != "" {
				return surface, true
			}
		}
		return "", false
	}
}

// firstNameLine returns the first line longer than five characters that
// is neither a date nor a bare amount.
func firstNameLine(text string, dates DateParser) step[string] {
	return func() (string, bool) {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if utf8.RuneCountInString(line) <= minMerchantLineLength {
				continue
			}
			if isBareAmount(line) {
				continue
			}
			if _, err := dates.Parse(line, true); err == nil {
				continue
			}
			return line, true
		}
		return "", false
	}
}

// isBareAmount reports whether line is just a number, with or without
// separators and a currency marker.
func isBareAmount(line string) bool {
	stripped := strings.TrimSpace(currencyAffix.ReplaceAllString(strings.TrimSpace(line), ""))
	return bareNumber.MatchString(separatorStrip.Replace(stripped))
}
