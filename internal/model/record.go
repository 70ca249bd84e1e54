package model

// Defaults applied when a metadata document has no usable value.
const (
	UnknownAuthor = "Unknown Author"
	UnknownTitle  = "Unknown Title"
)

// Record is the normalized view of one audiobook's metadata.
//
// Every field is a plain scalar. Author and Title always carry a value
// (the defaults above when the document had none); Narrator and Series
// are empty when absent.
//
// Records are built by metadata.Document.ToRecord, which is the only
// place defaults are applied.
type Record struct {
	// Author is the primary author name.
	Author string

	// Title is the book title.
	Title string

	// Narrator is the primary narrator name, or "" if unknown.
	Narrator string

	// Series is the raw series string. It may encode a book number after
	// a '#' delimiter, e.g. "Dune #1".
	Series string

	// Duration is the play time in seconds. It is 0 when DurationKnown
	// is false.
	Duration float64

	// DurationKnown is false when the document had no duration or it
	// could not be parsed.
	DurationKnown bool
}

// HasNarrator reports whether the record names a narrator.
func (r Record) HasNarrator() bool {
	return r.Narrator != ""
}

// HasSeries reports whether the record belongs to a series.
func (r Record) HasSeries() bool {
	return r.Series != ""
}
