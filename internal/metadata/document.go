// Package metadata reads per-book metadata documents and normalizes their
// loosely structured values into a model.Record.
//
// Documents are the metadata.json files Audiobookshelf writes next to a
// book. Their values may be scalars, single-element lists, comma-joined
// strings or string-serialized lists, and may be nested under a
// "metadata" object.
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/handiism/audiobook-tidy/internal/model"
)

// ErrNotObject is returned by Parse when the document is valid JSON but
// not an object.
var ErrNotObject = errors.New("metadata document is not a JSON object")

// Candidate keys per field, in priority order.
var (
	TitleKeys    = []string{"title", "bookTitle"}
	AuthorKeys   = []string{"authorName", "author", "authors", "bookAuthor"}
	NarratorKeys = []string{"narratorName", "narrator", "narrators"}
	SeriesKeys   = []string{"seriesName", "series"}
)

const (
	nestedKey   = "metadata"
	durationKey = "duration"
)

// Document is a decoded metadata document. Numbers are kept as
// json.Number so their text survives unchanged.
type Document map[string]any

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a JSON object.
func Parse(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Document(obj), nil
}

func (d Document) nested() map[string]any {
	m, _ := d[nestedKey].(map[string]any)
	return m
}

// Extract returns the cleaned value of the first key present with a
// non-null value. Top-level keys are tried in order first, then the same
// keys inside the nested "metadata" object. It returns "" when nothing
// matches; callers apply their own defaults.
func Extract(d Document, keys ...string) string {
	for _, k := range keys {
		if v, ok := d[k]; ok && v != nil {
			return CleanScalar(v)
		}
	}
	nested := d.nested()
	for _, k := range keys {
		if v, ok := nested[k]; ok && v != nil {
			return CleanScalar(v)
		}
	}
	return ""
}

// CleanScalar collapses a raw document value to a plain string:
//   - lists: first element, cleaned again ("" for an empty list)
//   - objects: their "name" member, cleaned again ("" without one)
//   - text after the first comma is dropped
//   - one leading `["` or `['` and one trailing `"]` or `']` are stripped
//   - surrounding whitespace is trimmed
//
// CleanScalar(CleanScalar(v)) == CleanScalar(v) for any v.
func CleanScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		if len(t) == 0 {
			return ""
		}
		return CleanScalar(t[0])
	case map[string]any:
		return CleanScalar(t["name"])
	case string:
		return cleanString(t)
	case json.Number:
		return cleanString(t.String())
	case bool:
		return strconv.FormatBool(t)
	default:
		return cleanString(fmt.Sprint(t))
	}
}

// cleanString repeats one cleaning pass until the value is stable, so
// wrappers uncovered by a previous pass (`["["x"]"]`) are removed too.
func cleanString(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s, _, _ = strings.Cut(s, ",")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '[' && isQuote(s[1]) {
		s = s[2:]
	}
	if n := len(s); n >= 2 && isQuote(s[n-2]) && s[n-1] == ']' {
		s = s[:n-2]
	}
	return strings.TrimSpace(s)
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

// ParseDuration interprets v as a non-negative number of seconds. Numbers
// and numeric strings are accepted. The second result is false when v is
// absent, negative, not finite or not numeric.
func ParseDuration(v any) (float64, bool) {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// Duration returns the raw duration value: the top-level "duration" unless
// it is null, zero or empty, in which case the nested one.
func (d Document) Duration() any {
	if v := d[durationKey]; !isZeroValue(v) {
		return v
	}
	return d.nested()[durationKey]
}

func isZeroValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// ToRecord builds the normalized record. This is where the
// "Unknown Author" and "Unknown Title" defaults are applied.
func (d Document) ToRecord() model.Record {
	rec := model.Record{
		Author:   Extract(d, AuthorKeys...),
		Title:    Extract(d, TitleKeys...),
		Narrator: Extract(d, NarratorKeys...),
		Series:   Extract(d, SeriesKeys...),
	}
	if rec.Author == "" {
		rec.Author = model.UnknownAuthor
	}
	if rec.Title == "" {
		rec.Title = model.UnknownTitle
	}
	rec.Duration, rec.DurationKnown = ParseDuration(d.Duration())
	return rec
}
