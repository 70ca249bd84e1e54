package model

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	ioutils "github.com/handiism/audiobook-tidy/internal/io"
)

// DefaultAudioExtensions are the file extensions treated as audio.
var DefaultAudioExtensions = []string{".mp3", ".m4b", ".m4a", ".flac", ".ogg"}

// Move is one file relocation within a BookPlan.
type Move struct {
	Source string
	Dest   string
}

// Renamed reports whether the move changes the file name, not only its
// directory.
func (m Move) Renamed() bool {
	return filepath.Base(m.Source) != filepath.Base(m.Dest)
}

// BookPlan is the reorganization work for a single book directory.
//
// Moves covers exactly the regular files found in SourceDir when the plan
// was built: audio files first in natural order, then every other file
// under its original name.
//
// Example:
//
//	plan, ok := NewBookPlan(record, cfg, "/lib/incoming/dune", entries)
//	// plan.TargetDir = "/lib/Frank Herbert/Dune/01 Dune"
type BookPlan struct {
	// Title is the book title for display.
	Title string

	// SourceDir is the book's current directory.
	SourceDir string

	// TargetDir is the canonical destination directory.
	TargetDir string

	// Moves lists every file of SourceDir with its destination.
	Moves []Move
}

// DirChanged reports whether the book changes directory.
func (p *BookPlan) DirChanged() bool {
	return ioutils.CanonicalPath(p.SourceDir) != ioutils.CanonicalPath(p.TargetDir)
}

// RenamedMoves returns the moves that change a file name.
func (p *BookPlan) RenamedMoves() []Move {
	var out []Move
	for _, m := range p.Moves {
		if m.Renamed() {
			out = append(out, m)
		}
	}
	return out
}

// PlanConfig holds the settings that shape target paths.
type PlanConfig struct {
	// Root is the library root under which target directories are built.
	Root string

	// AudioExtensions lists the lowercase extensions (with dot) treated as
	// audio. DefaultAudioExtensions is used when empty.
	AudioExtensions []string
}

func (c PlanConfig) isAudio(name string) bool {
	exts := c.AudioExtensions
	if len(exts) == 0 {
		exts = DefaultAudioExtensions
	}
	ext := filepath.Ext(name)
	return slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) })
}

// TargetDir computes the canonical directory for a record:
//
//	series:    <root>/<Author>/<Series>/<NN Title>
//	no series: <root>/<Author>/<Title>
func TargetDir(r Record, root string) string {
	author := ioutils.SanitizeFileName(r.Author)
	title := ioutils.SanitizeFileName(r.Title)

	s := ParseSeries(r.Series)
	if s.Title == "" {
		return filepath.Join(root, author, title)
	}

	label := title
	if s.Number != "" {
		label = ioutils.SanitizeFileName(s.Number + " " + title)
	}
	return filepath.Join(root, author, s.Title, label)
}

// AudioFileName returns the canonical name of the index-th (1-based) of
// count audio files. The index suffix is only added when count > 1.
func AudioFileName(r Record, index, count int, ext string) string {
	s := ParseSeries(r.Series)

	var parts []string
	for _, p := range []string{ioutils.SanitizeFileName(r.Author), s.Label(), ioutils.SanitizeFileName(r.Title)} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	name := strings.Join(parts, " - ")
	if count > 1 {
		name += fmt.Sprintf(" - %02d", index)
	}
	return ioutils.SanitizeFileName(name + ext)
}

// NewBookPlan builds the plan for the book in sourceDir, whose directory
// listing is files. Subdirectories and other non-regular entries are
// ignored.
//
// The second result is false when the book is already tidy: it already
// sits in its target directory and no file would be renamed.
func NewBookPlan(r Record, cfg PlanConfig, sourceDir string, files []fs.DirEntry) (*BookPlan, bool) {
	plan := &BookPlan{
		Title:     r.Title,
		SourceDir: sourceDir,
		TargetDir: TargetDir(r, cfg.Root),
	}

	var audio, other []string
	for _, f := range files {
		if !f.Type().IsRegular() {
			continue
		}
		if cfg.isAudio(f.Name()) {
			audio = append(audio, f.Name())
		} else {
			other = append(other, f.Name())
		}
	}
	slices.SortStableFunc(audio, NaturalCompare)

	for i, name := range audio {
		dest := AudioFileName(r, i+1, len(audio), filepath.Ext(name))
		plan.Moves = append(plan.Moves, Move{
			Source: filepath.Join(sourceDir, name),
			Dest:   filepath.Join(plan.TargetDir, dest),
		})
	}
	for _, name := range other {
		plan.Moves = append(plan.Moves, Move{
			Source: filepath.Join(sourceDir, name),
			Dest:   filepath.Join(plan.TargetDir, name),
		})
	}

	if !plan.DirChanged() && len(plan.RenamedMoves()) == 0 {
		return nil, false
	}
	return plan, true
}
