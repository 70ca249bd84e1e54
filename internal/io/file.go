// Package ioutils provides file system utilities for audiobook-tidy.
//
// This package contains functions for:
//   - Filename sanitization
//   - Directory creation and empty-directory checks
//   - Moving files, with a copy fallback across devices
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
)

var invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// CopyFile copies a file from source to destination.
//
// The destination file is created with the source's permission bits if it
// doesn't exist, or truncated if it does. The source's modification time
// is carried over. The source file must exist and
// be readable.
//
// Parameters:
//   - ctx: Context checked before the copy starts
//   - src: Source file path (must exist)
//   - dst: Destination file path (will be created/overwritten)
//
// Example:
//
//	err := CopyFile(ctx, "/lib/old/part1.mp3", "/lib/Author/Title/part1.mp3")
func CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// MoveFile moves src to dst.
//
// A plain rename is attempted first. When src and dst live on different
// devices the file is copied and the source removed afterwards; a failed
// copy removes the partial destination and keeps the source.
//
// MoveFile does not check whether dst exists. Callers decide beforehand
// whether an existing destination is a collision.
func MoveFile(ctx context.Context, src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := CopyFile(ctx, src, dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy across devices: %w", err)
	}
	return os.Remove(src)
}

// SanitizeFileName removes characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?*) → deleted
//   - Runs of whitespace, Unicode spaces included → single space
//   - Leading and trailing whitespace → removed
//
// Empty input, or input made only of invalid characters, yields "".
//
// Example:
//
//	SanitizeFileName("Dune: Messiah")       // Returns "Dune Messiah"
//	SanitizeFileName("AC/DC")               // Returns "ACDC"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	name = invalidChars.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/lib/Frank Herbert/Dune/01 Dune")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// IsEmptyDir reports whether path is a directory with no entries.
// A missing path is reported as (false, nil).
func IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// CanonicalPath returns the absolute form of path with symlinks resolved
// for the longest prefix that exists on disk. Paths that don't exist yet
// (a planned target directory) still compare equal to their resolved
// counterparts.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	var rest []string
	cur := abs
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}
