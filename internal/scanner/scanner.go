// Package scanner walks a library, turns every metadata document into a
// book plan and accumulates library statistics.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/handiism/audiobook-tidy/internal/metadata"
	"github.com/handiism/audiobook-tidy/internal/model"
)

// DefaultMetadataFileName marks a directory as a book.
const DefaultMetadataFileName = "metadata.json"

// ErrNotDirectory is returned when the library root is missing or is not
// a directory.
var ErrNotDirectory = errors.New("library root is not a directory")

// Options configures a Scanner.
type Options struct {
	// MetadataFileName is the document name that marks a book directory.
	// Defaults to DefaultMetadataFileName.
	MetadataFileName string

	// AudioExtensions overrides model.DefaultAudioExtensions.
	AudioExtensions []string

	// OnProgress, if set, is called after every processed document.
	OnProgress func(Progress)
}

// Progress reports scan progress.
type Progress struct {
	Current int
	Total   int
	Item    string // book directory
}

// Result is the outcome of a scan.
type Result struct {
	// Plans holds one plan per book that needs work, in scan order.
	Plans []*model.BookPlan

	// Stats covers every book whose document could be read, tidy or not.
	Stats model.LibraryStatistics

	// Skipped counts books whose document or directory could not be read.
	Skipped int
}

// Scanner discovers books under a root directory.
type Scanner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Scanner. A nil logger discards diagnostics.
func New(opts Options, logger *slog.Logger) *Scanner {
	if opts.MetadataFileName == "" {
		opts.MetadataFileName = DefaultMetadataFileName
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{opts: opts, logger: logger}
}

// Scan plans every book under root.
//
// Books with unreadable or malformed documents are skipped and left out
// of the statistics; they never fail the scan. The only errors are a root
// that is not a directory and context cancellation, which is checked
// between books.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	docs, err := s.discover(root)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("metadata documents found", "root", root, "count", len(docs))

	cfg := model.PlanConfig{Root: root, AudioExtensions: s.opts.AudioExtensions}
	result := &Result{Stats: model.NewLibraryStatistics()}

	for i, docPath := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		bookDir := filepath.Dir(docPath)
		if err := s.scanBook(cfg, docPath, result); err != nil {
			result.Skipped++
			s.logger.Warn("skipping book", "dir", bookDir, "error", err)
		}

		if s.opts.OnProgress != nil {
			s.opts.OnProgress(Progress{Current: i + 1, Total: len(docs), Item: bookDir})
		}
	}

	return result, nil
}

func (s *Scanner) scanBook(cfg model.PlanConfig, docPath string, result *Result) error {
	doc, err := metadata.Load(docPath)
	if err != nil {
		return err
	}

	bookDir := filepath.Dir(docPath)
	entries, err := os.ReadDir(bookDir)
	if err != nil {
		return fmt.Errorf("list book directory: %w", err)
	}
	size, err := directSize(entries)
	if err != nil {
		return fmt.Errorf("measure book directory: %w", err)
	}

	rec := doc.ToRecord()
	result.Stats.Add(rec, size)

	if plan, ok := model.NewBookPlan(rec, cfg, bookDir, entries); ok {
		result.Plans = append(result.Plans, plan)
	} else {
		s.logger.Debug("book already tidy", "dir", bookDir)
	}
	return nil
}

// discover returns every metadata document under root in lexical order.
// Subtrees that cannot be read are logged and skipped.
func (s *Scanner) discover(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("cannot read directory", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && d.Name() == s.opts.MetadataFileName {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(docs)
	return docs, nil
}

// directSize sums the sizes of the regular files in entries.
func directSize(entries []fs.DirEntry) (int64, error) {
	var total int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
