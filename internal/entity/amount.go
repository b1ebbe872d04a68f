package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	currencyWords   = `INR|Rs\.|Rs|USD|EUR|GBP`
	currencySymbols = `[₹$€£]`
)

// amountPattern matches a number with an optional currency marker on either side.
// The number is up to three digits optionally grouped by thousands separators,
// with an optional decimal part. Lakh grouping (1,25,000) and ungrouped totals
// of four to seven digits with two decimals (1250.00) are also accepted.
// Longer digit runs such as phone and bill numbers never match.
var amountPattern = regexp.MustCompile(
	`(?i)(?:(?P<pre>\b(?:` + currencyWords + `)|` + currencySymbols + `)[ \t]*)?` +
		`\b(?P<amt>\d{1,2}(?:,\d{2})+,\d{3}(?:\.\d+)?|\d{1,3}(?:[.,]\d{3})*(?:[.,]\d+)?|\d{4,7}[.,]\d{2})\b` +
		`(?:[ \t]*(?P<post>Rs\.|(?:INR|Rs|USD|EUR|GBP)\b|` + currencySymbols + `))?`,
)

var (
	preGroup  = amountPattern.SubexpIndex("pre")
	amtGroup  = amountPattern.SubexpIndex("amt")
	postGroup = amountPattern.SubexpIndex("post")
)

// AmountMatch is a monetary token found in text
type AmountMatch struct {
	Text     string // as printed, including the currency marker
	Number   string // numeric part as printed
	Currency string // marker as printed, empty when there is none
}

// FindAmounts returns every monetary token in text, leftmost first.
// Numbers that are fragments of a date or a time are skipped.
func FindAmounts(text string) []AmountMatch {
	var matches []AmountMatch
	for _, idx := range amountPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := idx[2*amtGroup], idx[2*amtGroup+1]
		if isDateFragment(text, start, end) {
			continue
		}

		m := AmountMatch{
			Text:   text[idx[0]:idx[1]],
			Number: text[start:end],
		}
		switch {
		case idx[2*preGroup] >= 0:
			m.Currency = text[idx[2*preGroup]:idx[2*preGroup+1]]
		case idx[2*postGroup] >= 0:
			m.Currency = text[idx[2*postGroup]:idx[2*postGroup+1]]
		}
		matches = append(matches, m)
	}
	return matches
}

// ParseAmount parses a numeric token as printed on a receipt.
// When both separators appear the rightmost is the decimal mark and the
// other is grouping. A lone comma followed by one or two digits is read
// as a decimal comma; any other comma is grouping.
func ParseAmount(number string) (float64, error) {
	d, err := decimal.NewFromString(normalizeNumber(number))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", number, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", number)
	}
	return d.InexactFloat64(), nil
}

func normalizeNumber(number string) string {
	dot := strings.LastIndexByte(number, '.')
	comma := strings.LastIndexByte(number, ',')

	switch {
	case dot != -1 && comma != -1:
		if comma > dot {
			return strings.ReplaceAll(number[:comma], ".", "") + "." + number[comma+1:]
		}
		return strings.ReplaceAll(number, ",", "")
	case comma != -1 && len(number)-comma-1 <= 2:
		return strings.ReplaceAll(number[:comma], ",", "") + "." + number[comma+1:]
	default:
		return strings.ReplaceAll(number, ",", "")
	}
}

// resolveAmount takes the first monetary token in text. The currency falls
// back to DefaultCurrency whether or not an amount was found.
func resolveAmount(text string) (*float64, string, error) {
	currency := DefaultCurrency

	matches := FindAmounts(text)
	if len(matches) == 0 {
		return nil, currency, nil
	}

	first := matches[0]
	if first.Currency != "" {
		currency = first.Currency
	}

	amount, err := ParseAmount(first.Number)
	if err != nil {
		return nil, currency, err
	}
	return &amount, currency, nil
}

// isDateFragment reports whether text[start:end] is one part of a
// date or time such as 12/05/2024, 2024-01-15, 12.05.2024 or 10:30.
func isDateFragment(text string, start, end int) bool {
	if start >= 2 && isDateSeparator(text[start-1]) && isDigit(text[start-2]) {
		return true
	}
	if end+1 < len(text) && isDateSeparator(text[end]) && isDigit(text[end+1]) {
		return true
	}
	return false
}

func isDateSeparator(c byte) bool {
	return c == '/' || c == '-' || c == ':' || c == '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
