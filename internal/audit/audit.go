// Package audit writes the append-only text log that records every change
// made to a library.
//
// Each line has the form
//
//	[2006-01-02 15:04:05] <event>
//
// The file is opened and closed on every write, so a crash never leaves
// buffered events behind and the log can be inspected while a run is in
// progress.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFileName is the log file created at the library root.
const DefaultFileName = "tidy_library_log.txt"

const timeLayout = "2006-01-02 15:04:05"

// Log appends timestamped events to a file.
type Log struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// Open returns a Log writing to path. The file is created on first write.
func Open(path string, opts ...Option) *Log {
	l := &Log{path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one event line.
func (l *Log) Append(event string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("[%s] %s\n", l.now().Format(timeLayout), event)
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Event constructors for every line the executor writes.

// SessionStart marks the beginning of a run over n books.
func SessionStart(n int) string {
	return fmt.Sprintf("--- SESSION START: %d books ---", n)
}

// StartBook marks the beginning of one book.
func StartBook(title string) string {
	return "START BOOK: " + title
}

// Moved records a file move by old and new file name.
func Moved(oldName, newName string) string {
	return fmt.Sprintf("  MOVED: %s -> %s", oldName, newName)
}

// Conflict records a destination name that was already taken.
func Conflict(name string) string {
	return fmt.Sprintf("  CONFLICT: %s already exists.", name)
}

// Cleanup records removal of an emptied source directory.
func Cleanup(dirName string) string {
	return "  CLEANUP: Removed empty dir " + dirName
}

// Error records an unexpected failure.
func Error(err error) string {
	return "!!! ERROR: " + err.Error()
}
