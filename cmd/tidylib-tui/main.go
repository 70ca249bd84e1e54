package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/handiism/audiobook-tidy/internal/config"
	"github.com/handiism/audiobook-tidy/internal/logger"
	"github.com/handiism/audiobook-tidy/internal/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, tui.Run))
}

// runFunc starts the interactive program.
type runFunc func(settings *config.Settings, log *logger.Logger) error

func run(args []string, stderr io.Writer, start runFunc) int {
	fs := flag.NewFlagSet("tidylib-tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFlag := fs.String("config", "", "Path to settings file")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	logFile := fs.String("log-file", "", "Write diagnostics to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	vars, err := config.ReadEnvFile(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	settings.ApplyEnv(config.EnvLookup(vars))
	if fs.NArg() > 0 {
		settings.ApplyOverrides(config.Overrides{LibraryPath: fs.Arg(0)})
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: invalid config: %v\n", err)
		return 1
	}

	// The screen belongs to Bubble Tea, so diagnostics go to a file or nowhere.
	log := logger.Discard()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		log = logger.New(logger.Config{
			Writer:  f,
			Format:  settings.LogFormat,
			Level:   logger.ParseLevel(settings.LogLevel),
			NoColor: true,
		})
	}

	if err := start(settings, log); err != nil {
		log.Error("tui failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
