package model

import (
	"slices"
)

// LibraryStatistics aggregates counters over every scanned book.
//
// Authors, narrators and series are true sets: a name seen on many books
// counts once. Statistics are filled by the scanner via Add and are not
// changed afterwards.
type LibraryStatistics struct {
	Books         int
	Standalone    int
	TotalDuration float64 // seconds
	TotalSize     int64   // bytes

	authors   map[string]struct{}
	narrators map[string]struct{}
	series    map[string]struct{}
}

// NewLibraryStatistics returns empty statistics ready for Add.
func NewLibraryStatistics() LibraryStatistics {
	return LibraryStatistics{
		authors:   make(map[string]struct{}),
		narrators: make(map[string]struct{}),
		series:    make(map[string]struct{}),
	}
}

// Add accounts one book with its on-disk size in bytes.
func (s *LibraryStatistics) Add(r Record, size int64) {
	if s.authors == nil {
		*s = NewLibraryStatistics()
	}

	s.Books++
	s.TotalSize += size
	s.TotalDuration += r.Duration

	s.authors[r.Author] = struct{}{}
	if r.HasNarrator() {
		s.narrators[r.Narrator] = struct{}{}
	}

	if !r.HasSeries() {
		s.Standalone++
		return
	}
	if name := SeriesName(r.Series); name != "" {
		s.series[name] = struct{}{}
	}
}

// Authors returns the number of distinct authors.
func (s LibraryStatistics) Authors() int { return len(s.authors) }

// Narrators returns the number of distinct known narrators.
func (s LibraryStatistics) Narrators() int { return len(s.narrators) }

// Series returns the number of distinct series names.
func (s LibraryStatistics) Series() int { return len(s.series) }

// CollisionSet is the set of destination filenames that already existed as
// different files. Only plain names are stored, so the same name hit by
// several books is reported once.
type CollisionSet struct {
	names map[string]struct{}
}

// NewCollisionSet returns an empty set.
func NewCollisionSet() *CollisionSet {
	return &CollisionSet{names: make(map[string]struct{})}
}

// Add records name.
func (c *CollisionSet) Add(name string) {
	c.names[name] = struct{}{}
}

// Len returns the number of distinct names.
func (c *CollisionSet) Len() int {
	return len(c.names)
}

// Sorted returns the names in lexical order for reporting.
func (c *CollisionSet) Sorted() []string {
	return sortedKeys(c.names)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
