// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/gpskit/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/gpskit/config.cue on macOS, %APPDATA%\gpskit\config.cue
// on Windows), falling back to ./config.cue in the working directory. The package
// provides type-safe access to interpreter and environment settings, entry program
// names, runtime selection, receiver overrides, hooks, journal, serve, and UI options.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
