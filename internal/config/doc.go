// Package config provides configuration management for audiobook-tidy.
//
// Settings come from four layers, lowest priority first:
//
//  1. Default values
//  2. A JSON settings file
//  3. TIDY_* variables from a .env file
//  4. TIDY_* variables from the process environment
//
// Command-line flags are applied last through ApplyOverrides.
//
// # Loading
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//
//	vars, err := config.ReadEnvFile(".env")
//	if err != nil {
//	    return err
//	}
//	settings.ApplyEnv(config.EnvLookup(vars))
//	settings.ApplyOverrides(config.Overrides{LibraryPath: *root})
//
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//
// # Saving Settings
//
//	settings.LibraryPath = "/srv/audiobooks"
//	err := settings.Save(config.DefaultPath())
package config
