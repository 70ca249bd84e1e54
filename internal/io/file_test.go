package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "filewithcolons.mp3"},
		{"file<with>brackets.mp3", "filewithbrackets.mp3"},
		{"file/with\\slashes.mp3", "filewithslashes.mp3"},
		{"file|with|pipes.mp3", "filewithpipes.mp3"},
		{"file?with*wildcards.mp3", "filewithwildcards.mp3"},
		{"file\"with\"quotes.mp3", "filewithquotes.mp3"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded\t\tname  ", "padded name"},
		{"Dune: Messiah", "Dune Messiah"},
		{"Dune\u00a0\u00a0Messiah", "Dune Messiah"},
		{"Dune\v Messiah", "Dune Messiah"},
		{"Dune\u2009 Messiah", "Dune Messiah"},
		{"\u00a0Dune\u3000", "Dune"},
		{"<>:\"/\\|?*", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	dst := filepath.Join(dir, "sub", "b.mp3")
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0644))
	require.NoError(t, EnsureDir(filepath.Dir(dst)))

	require.NoError(t, MoveFile(context.Background(), src, dst))

	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))
}

func TestCopyFile_Cancelled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CopyFile(ctx, src, filepath.Join(dir, "b.mp3"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "b.mp3"))
}

func TestCopyFile_KeepsModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	dst := filepath.Join(dir, "b.mp3")
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0640))
	mtime := time.Date(2020, 3, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, CopyFile(context.Background(), src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mod time = %v, want %v", info.ModTime(), mtime)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsEmptyDir(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), nil, 0644))
	empty, err = IsEmptyDir(dir)
	require.NoError(t, err)
	assert.False(t, empty)

	empty, err = IsEmptyDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "realDir")
	require.NoError(t, EnsureDir(realDir))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, CanonicalPath(realDir), CanonicalPath(link))
	assert.Equal(t,
		CanonicalPath(filepath.Join(realDir, "not", "yet")),
		CanonicalPath(filepath.Join(link, "not", "yet")),
	)
	assert.Equal(t, "/tidy-missing-root/Author", CanonicalPath("/tidy-missing-root/./Author"))
}
