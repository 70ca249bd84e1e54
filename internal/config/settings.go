package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/handiism/audiobook-tidy/internal/audit"
	"github.com/handiism/audiobook-tidy/internal/model"
	"github.com/handiism/audiobook-tidy/internal/scanner"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "TIDY_"

// Settings holds all configuration options.
type Settings struct {
	// Library layout
	LibraryPath      string   `json:"library_path"`
	MetadataFileName string   `json:"metadata_file_name"`
	LogFileName      string   `json:"log_file_name"`
	AudioExtensions  []string `json:"audio_extensions"`

	// Diagnostics
	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	LogFormat string `json:"log_format"` // pretty, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		MetadataFileName: scanner.DefaultMetadataFileName,
		LogFileName:      audit.DefaultFileName,
		AudioExtensions:  append([]string(nil), model.DefaultAudioExtensions...),
		LogLevel:         "info",
		LogFormat:        "pretty",
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tidylib.json"
	}
	return filepath.Join(dir, "audiobook-tidy", "settings.json")
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadEnvFile returns the variables of a .env file without touching the
// process environment. A missing file yields no variables.
func ReadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

// EnvLookup combines the process environment with values from a .env
// file. The process environment wins.
func EnvLookup(fileVars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}
}

// ApplyEnv overlays TIDY_* variables returned by lookup.
//
// Recognized keys: TIDY_LIBRARY_PATH, TIDY_METADATA_FILE_NAME,
// TIDY_LOG_FILE_NAME, TIDY_AUDIO_EXTENSIONS (comma separated),
// TIDY_LOG_LEVEL and TIDY_LOG_FORMAT.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	str("LIBRARY_PATH", &s.LibraryPath)
	str("METADATA_FILE_NAME", &s.MetadataFileName)
	str("LOG_FILE_NAME", &s.LogFileName)
	str("LOG_LEVEL", &s.LogLevel)
	str("LOG_FORMAT", &s.LogFormat)

	if v, ok := lookup(EnvPrefix + "AUDIO_EXTENSIONS"); ok {
		s.AudioExtensions = splitList(v)
	}
}

// Overrides holds values given on the command line. Empty fields are
// left alone.
type Overrides struct {
	LibraryPath string
	LogLevel    string
	LogFormat   string
}

// ApplyOverrides overlays command-line values.
func (s *Settings) ApplyOverrides(o Overrides) {
	if o.LibraryPath != "" {
		s.LibraryPath = o.LibraryPath
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		s.LogFormat = o.LogFormat
	}
}

// Validate checks that the settings can drive a scan.
func (s *Settings) Validate() error {
	names := []struct{ field, value string }{
		{"metadata_file_name", s.MetadataFileName},
		{"log_file_name", s.LogFileName},
	}
	for _, n := range names {
		if n.value == "" {
			return fmt.Errorf("%s cannot be empty", n.field)
		}
		if strings.ContainsAny(n.value, `/\`) {
			return fmt.Errorf("%s must be a plain file name: %q", n.field, n.value)
		}
	}

	for _, ext := range s.AudioExtensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("invalid audio extension %q (must start with a dot)", ext)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s.LogLevel)
	}

	switch s.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be pretty or json)", s.LogFormat)
	}

	return nil
}

// ResolveLibraryPath expands ~ and makes the library path absolute.
func (s *Settings) ResolveLibraryPath() (string, error) {
	path := s.LibraryPath
	if path == "" {
		return "", errors.New("library path is not set")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// LogPath returns the audit log location for a library root.
func (s *Settings) LogPath(root string) string {
	return filepath.Join(root, s.LogFileName)
}

// ToScannerOptions converts settings to scanner options.
func (s *Settings) ToScannerOptions() scanner.Options {
	return scanner.Options{
		MetadataFileName: s.MetadataFileName,
		AudioExtensions:  s.AudioExtensions,
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
