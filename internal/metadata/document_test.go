package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/audiobook-tidy/internal/model"
)

func mustParse(t *testing.T, s string) Document {
	t.Helper()
	doc, err := Parse([]byte(s))
	require.NoError(t, err)
	return doc
}

func TestCleanScalar(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"plain", "Frank Herbert", "Frank Herbert"},
		{"trimmed", "  Frank Herbert  ", "Frank Herbert"},
		{"comma joined", "Frank Herbert, Brian Herbert", "Frank Herbert"},
		{"list", []any{"Frank Herbert", "Brian Herbert"}, "Frank Herbert"},
		{"nested list", []any{[]any{"Frank Herbert"}}, "Frank Herbert"},
		{"empty list", []any{}, ""},
		{"serialized list", `["Frank Herbert"]`, "Frank Herbert"},
		{"serialized list single quotes", `['Frank Herbert']`, "Frank Herbert"},
		{"object with name", map[string]any{"id": "a1", "name": "Frank Herbert"}, "Frank Herbert"},
		{"object without name", map[string]any{"id": "a1"}, ""},
		{"list of objects", []any{map[string]any{"name": "Scott Brick"}}, "Scott Brick"},
		{"number", json.Number("7"), "7"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"double wrapped", `["["Frank"]"]`, "Frank"},
		{"leading space wrapper", ` ["Frank"]`, "Frank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanScalar(tt.input); got != tt.want {
				t.Errorf("CleanScalar(%#v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanScalar_Idempotent(t *testing.T) {
	inputs := []any{
		"Frank Herbert",
		"Frank Herbert, Brian Herbert",
		[]any{"a, b", "c"},
		`["Frank Herbert"]`,
		`['Frank Herbert']`,
		`["["x"]"]`,
		` [' x '] `,
		`[`,
		`"]`,
		`['']`,
		"  ",
	}

	for _, in := range inputs {
		once := CleanScalar(in)
		if twice := CleanScalar(once); twice != once {
			t.Errorf("CleanScalar not idempotent for %#v: %q then %q", in, once, twice)
		}
	}
}

func TestExtract(t *testing.T) {
	doc := mustParse(t, `{
		"author": null,
		"authors": ["Frank Herbert"],
		"title": "Dune",
		"metadata": {"authorName": "Ignored", "narratorName": "Scott Brick", "seriesName": "Dune #1"}
	}`)

	assert.Equal(t, "Frank Herbert", Extract(doc, AuthorKeys...))
	assert.Equal(t, "Dune", Extract(doc, TitleKeys...))
	assert.Equal(t, "Scott Brick", Extract(doc, NarratorKeys...))
	assert.Equal(t, "Dune #1", Extract(doc, SeriesKeys...))
	assert.Equal(t, "", Extract(doc, "missing"))
}

func TestExtract_KeyPriority(t *testing.T) {
	doc := mustParse(t, `{"bookAuthor": "Last", "author": "Second", "authorName": "First"}`)
	assert.Equal(t, "First", Extract(doc, AuthorKeys...))

	doc = mustParse(t, `{"bookAuthor": "Last", "metadata": {"authorName": "Nested"}}`)
	assert.Equal(t, "Last", Extract(doc, AuthorKeys...), "top level wins over nested")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input  any
		want   float64
		wantOK bool
	}{
		{json.Number("3600"), 3600, true},
		{json.Number("12.5"), 12.5, true},
		{"90", 90, true},
		{" 1.5 ", 1.5, true},
		{"abc", 0, false},
		{"-5", 0, false},
		{"NaN", 0, false},
		{nil, 0, false},
		{[]any{json.Number("1")}, 0, false},
		{float64(7), 7, true},
	}

	for _, tt := range tests {
		got, ok := ParseDuration(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseDuration(%#v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToRecord(t *testing.T) {
	doc := mustParse(t, `{"title":"Dune","author":"Frank Herbert","series":"Dune #1"}`)
	assert.Equal(t, model.Record{
		Author: "Frank Herbert",
		Title:  "Dune",
		Series: "Dune #1",
	}, doc.ToRecord())
}

func TestToRecord_Defaults(t *testing.T) {
	rec := mustParse(t, `{"unrelated": 1}`).ToRecord()
	assert.Equal(t, model.UnknownAuthor, rec.Author)
	assert.Equal(t, model.UnknownTitle, rec.Title)
	assert.False(t, rec.HasNarrator())
	assert.False(t, rec.HasSeries())
	assert.False(t, rec.DurationKnown)
}

func TestToRecord_NestedDuration(t *testing.T) {
	rec := mustParse(t, `{"duration": 0, "metadata": {"duration": "5400.5"}}`).ToRecord()
	assert.True(t, rec.DurationKnown)
	assert.Equal(t, 5400.5, rec.Duration)

	rec = mustParse(t, `{"duration": "soon"}`).ToRecord()
	assert.False(t, rec.DurationKnown)
	assert.Zero(t, rec.Duration)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"title":"Dune"}`), 0644))
	doc, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, "Dune", Extract(doc, TitleKeys...))

	list := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(list, []byte(`["Dune"]`), 0644))
	_, err = Load(list)
	assert.ErrorIs(t, err, ErrNotObject)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"title":`), 0644))
	_, err = Load(broken)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
