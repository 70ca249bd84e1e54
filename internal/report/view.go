// Package report turns scan and execution results into display models and
// renders them for a terminal. Building a view never touches the
// filesystem.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/handiism/audiobook-tidy/internal/executor"
	"github.com/handiism/audiobook-tidy/internal/model"
)

// StatsView is the displayable form of library statistics.
type StatsView struct {
	Books      int
	Authors    int
	Narrators  int
	Series     int
	Standalone int
	PlayTime   string // "3d 4h 12m"
	Size       string // "12 GB"
}

// NewStatsView builds a StatsView.
func NewStatsView(s model.LibraryStatistics) StatsView {
	return StatsView{
		Books:      s.Books,
		Authors:    s.Authors(),
		Narrators:  s.Narrators(),
		Series:     s.Series(),
		Standalone: s.Standalone,
		PlayTime:   FormatDuration(s.TotalDuration),
		Size:       FormatSize(s.TotalSize),
	}
}

// Change is an old/new pair for display.
type Change struct {
	Old string
	New string
}

// PlanView describes the proposed changes of one book.
type PlanView struct {
	Title string

	// Folder is set when the book changes directory. Paths are relative to
	// the library root when they lie under it.
	Folder *Change

	// Files lists renamed files by base name.
	Files []Change
}

// NewPlanView builds a PlanView for plan under root.
func NewPlanView(plan *model.BookPlan, root string) PlanView {
	v := PlanView{Title: plan.Title}
	if plan.DirChanged() {
		v.Folder = &Change{
			Old: relativeTo(root, plan.SourceDir),
			New: relativeTo(root, plan.TargetDir),
		}
	}
	for _, m := range plan.RenamedMoves() {
		v.Files = append(v.Files, Change{Old: filepath.Base(m.Source), New: filepath.Base(m.Dest)})
	}
	return v
}

// ResultsView summarizes a finished session.
type ResultsView struct {
	Applied    int
	Skipped    int
	Errors     int
	Aborted    bool
	Collisions []string // sorted
	LogPath    string
}

// Clean reports whether the session ended without errors or collisions.
func (v ResultsView) Clean() bool {
	return v.Errors == 0 && len(v.Collisions) == 0
}

// NewResultsView builds a ResultsView.
func NewResultsView(sum executor.SessionSummary, collisions *model.CollisionSet, logPath string) ResultsView {
	v := ResultsView{
		Applied: sum.Applied,
		Skipped: sum.Skipped,
		Errors:  sum.Errors,
		Aborted: sum.Aborted,
		LogPath: logPath,
	}
	if collisions != nil {
		v.Collisions = collisions.Sorted()
	}
	return v
}

// FormatDuration renders seconds as "Xd Yh Zm", or "Yh Zm" under a day.
// Minutes are truncated.
//
//	FormatDuration(0)      // "0h 0m"
//	FormatDuration(5400)   // "1h 30m"
//	FormatDuration(90061)  // "1d 1h 1m"
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0h 0m"
	}
	total := int64(seconds)
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatSize renders a byte count with SI units.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
