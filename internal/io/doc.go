// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation and empty-directory detection
//   - Moving and copying files
//   - Canonical path comparison
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/lib/Author/Title")
//
//	// Move a file, falling back to copy+remove across devices
//	err := ioutils.MoveFile(ctx, "/lib/old/a.mp3", "/lib/Author/Title/a.mp3")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Dune: Part 1/2") // Returns "Dune Part 12"
package ioutils
