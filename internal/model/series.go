package model

import (
	"strings"

	ioutils "github.com/handiism/audiobook-tidy/internal/io"
)

// Series is a parsed series string.
//
// Example:
//
//	s := ParseSeries("Dune #1")
//	// s.Title = "Dune", s.Number = "01"
type Series struct {
	// Title is the sanitized series name.
	Title string

	// Number is the formatted book number, or "" when the series string
	// carried no '#'.
	Number string
}

// Label returns "{Title} {Number}" trimmed, as used in file names. A
// series without a title has no label, matching TargetDir.
func (s Series) Label() string {
	if s.Title == "" {
		return ""
	}
	return strings.TrimSpace(s.Title + " " + s.Number)
}

// ParseSeries splits a raw series string on its first '#'.
//
// Book numbers are formatted as follows:
//   - "7"        → "07"
//   - "7.5"      → "07.5" (only the integral part is padded)
//   - "Special"  → "Special" (kept verbatim)
//   - "7.x"      → "7.x" (malformed decimals are kept verbatim)
func ParseSeries(raw string) Series {
	name, number, found := strings.Cut(raw, "#")
	if !found {
		return Series{Title: ioutils.SanitizeFileName(raw)}
	}
	return Series{
		Title:  ioutils.SanitizeFileName(name),
		Number: formatBookNumber(strings.TrimSpace(number)),
	}
}

// SeriesName returns the display name of a raw series string: the text
// before the first '#', trimmed but not sanitized.
func SeriesName(raw string) string {
	name, _, _ := strings.Cut(raw, "#")
	return strings.TrimSpace(name)
}

func formatBookNumber(raw string) string {
	if whole, frac, ok := strings.Cut(raw, "."); ok {
		if isDigits(whole) && isDigits(frac) {
			return zeroPad(whole) + "." + frac
		}
		return raw
	}
	if isDigits(raw) {
		return zeroPad(raw)
	}
	return raw
}

func zeroPad(digits string) string {
	if len(digits) >= 2 {
		return digits
	}
	return strings.Repeat("0", 2-len(digits)) + digits
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
