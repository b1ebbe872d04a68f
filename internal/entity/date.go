package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrNoDate is returned when no date can be read from the text
var ErrNoDate = errors.New("no date found")

const (
	dateLayoutISO     = "2006-01-02"
	dateTimeLayoutISO = "2006-01-02T15:04:05"
	monthNamePattern  = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	timeOfDayPattern  = `(?:[ T]\d{1,2}:\d{2}(?::\d{2})?(?: ?[ap]m)?)?`
	ordinalPattern    = `(?:st|nd|rd|th)?`
)

// datePattern finds date-shaped substrings: ISO and numeric day/month/year
// forms (optionally with a time of day) and forms with a month name.
var datePattern = regexp.MustCompile(`(?i)\b(?:` +
	`\d{4}[-/.]\d{1,2}[-/.]\d{1,2}` + timeOfDayPattern +
	`|\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}` + timeOfDayPattern +
	`|\d{1,2}` + ordinalPattern + `[ -]` + monthNamePattern + `\.?,?[ -]\d{2,4}` +
	`|` + monthNamePattern + `\.? \d{1,2}` + ordinalPattern + `,? \d{2,4}` +
	`)\b`)

var ordinalSuffix = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)\b`)

// FindDates returns the date-shaped substrings of text, leftmost first
func FindDates(text string) []string {
	return datePattern.FindAllString(text, -1)
}

// FuzzyDateParser reads dates from noisy receipt text
type FuzzyDateParser struct {
	dayFirst bool
}

// NewFuzzyDateParser creates a parser. With dayFirst, 05/12/2024 reads as 5 December.
func NewFuzzyDateParser(dayFirst bool) *FuzzyDateParser {
	return &FuzzyDateParser{dayFirst: dayFirst}
}

// Parse reads a date from text. Without fuzzy the whole text must be a
// date; with fuzzy the first date-shaped substring that parses wins.
func (p *FuzzyDateParser) Parse(text string, fuzzy bool) (time.Time, error) {
	if !fuzzy {
		return p.parseCandidate(strings.TrimSpace(text))
	}

	for _, candidate := range FindDates(text) {
		if t, err := p.parseCandidate(candidate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrNoDate
}

func (p *FuzzyDateParser) parseCandidate(candidate string) (time.Time, error) {
	if candidate == "" {
		return time.Time{}, ErrNoDate
	}
	candidate = ordinalSuffix.ReplaceAllString(candidate, "$1")

	t, err := dateparse.ParseAny(candidate,
		dateparse.PreferMonthFirst(!p.dayFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoDate, err)
	}
	return t, nil
}

// FormatDate renders t as an ISO 8601 date, with the time of day only when there is one
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayoutISO)
	}
	return t.Format(dateTimeLayoutISO)
}

// resolveDate makes a single fuzzy attempt over the entire text
func resolveDate(text string, dates DateParser) *string {
	t, err := dates.Parse(text, true)
	if err != nil {
		return nil
	}
	formatted := FormatDate(t)
	return &formatted
}
