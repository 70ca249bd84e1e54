package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, "metadata.json", s.MetadataFileName)
	assert.Equal(t, "tidy_library_log.txt", s.LogFileName)
	assert.Equal(t, []string{".mp3", ".m4b", ".m4a", ".flac", ".ogg"}, s.AudioExtensions)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := DefaultSettings()
	s.LibraryPath = "/srv/books"
	s.AudioExtensions = []string{".mp3"}
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"library_path":"/books"}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/books", s.LibraryPath)
	assert.Equal(t, "metadata.json", s.MetadataFileName)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	s := DefaultSettings()
	s.ApplyEnv(mapLookup(map[string]string{
		"TIDY_LIBRARY_PATH":     "/env/books",
		"TIDY_AUDIO_EXTENSIONS": ".mp3, .opus,,",
		"TIDY_LOG_LEVEL":        " debug ",
		"LIBRARY_PATH":          "/ignored",
	}))

	assert.Equal(t, "/env/books", s.LibraryPath)
	assert.Equal(t, []string{".mp3", ".opus"}, s.AudioExtensions)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "pretty", s.LogFormat)
}

func TestPrecedence(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TIDY_LIBRARY_PATH=/dotenv\nTIDY_LOG_FORMAT=json\nTIDY_LOG_LEVEL=warn\n"), 0644))

	t.Setenv("TIDY_LOG_LEVEL", "error")

	vars, err := ReadEnvFile(envFile)
	require.NoError(t, err)

	s := DefaultSettings()
	s.LibraryPath = "/from-json"
	s.ApplyEnv(EnvLookup(vars))
	s.ApplyOverrides(Overrides{LibraryPath: "/flag"})

	assert.Equal(t, "/flag", s.LibraryPath)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, "error", s.LogLevel)
}

func TestReadEnvFile_Missing(t *testing.T) {
	vars, err := ReadEnvFile(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Empty(t, vars)

	vars, err = ReadEnvFile("")
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		valid  bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"empty metadata name", func(s *Settings) { s.MetadataFileName = "" }, false},
		{"metadata name with separator", func(s *Settings) { s.MetadataFileName = "a/metadata.json" }, false},
		{"empty log name", func(s *Settings) { s.LogFileName = "" }, false},
		{"log name with backslash", func(s *Settings) { s.LogFileName = `logs\tidy.txt` }, false},
		{"extension without dot", func(s *Settings) { s.AudioExtensions = []string{"mp3"} }, false},
		{"bare dot", func(s *Settings) { s.AudioExtensions = []string{"."} }, false},
		{"no extensions", func(s *Settings) { s.AudioExtensions = nil }, true},
		{"unknown log format", func(s *Settings) { s.LogFormat = "xml" }, false},
		{"uppercase level", func(s *Settings) { s.LogLevel = "DEBUG" }, true},
		{"unknown level", func(s *Settings) { s.LogLevel = "trace" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestResolveLibraryPath(t *testing.T) {
	s := DefaultSettings()
	_, err := s.ResolveLibraryPath()
	assert.Error(t, err)

	s.LibraryPath = "/srv/books/../books/"
	path, err := s.ResolveLibraryPath()
	require.NoError(t, err)
	assert.Equal(t, "/srv/books", path)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	s.LibraryPath = "~/Audiobooks"
	path, err = s.ResolveLibraryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Audiobooks"), path)
}

func TestToScannerOptions(t *testing.T) {
	s := DefaultSettings()
	s.MetadataFileName = "book.json"

	opts := s.ToScannerOptions()
	assert.Equal(t, "book.json", opts.MetadataFileName)
	assert.Equal(t, s.AudioExtensions, opts.AudioExtensions)
	assert.Equal(t, "/lib/tidy_library_log.txt", s.LogPath("/lib"))
}
