// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"

	"github.com/gpskit/gpskit/pkg/types"
)

// configDirOverride allows tests to override the config directory.
// This is necessary because os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI).
var configDirOverride string

// dataDirOverride allows tests to override the data directory.
var dataDirOverride string

// configFilePathOverride pins loading to an explicit file. The root command
// sets it from the --config flag before the first Load call.
var configFilePathOverride string

var (
	loadMu     sync.Mutex
	loadedCfg  *Config
	loadedPath string
)

// Load returns the process-wide configuration, loading it on first use and
// caching the result. Overrides must be set before the first call; changing
// them afterwards invalidates the cache.
func Load() (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if err := ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return loadedCfg, nil
}

// ResolvedPath returns the config file path the cached configuration was
// loaded from, or "" when built-in defaults applied.
func ResolvedPath() (string, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if err := ensureLoadedLocked(); err != nil {
		return "", err
	}
	return loadedPath, nil
}

// ensureLoadedLocked populates the cache on first use. Callers must hold loadMu.
func ensureLoadedLocked() error {
	if loadedCfg != nil {
		return nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(configFilePathOverride),
	})
	if err != nil {
		return err
	}

	loadedCfg = cfg
	loadedPath = path
	return nil
}

// invalidate drops the cached configuration so the next Load re-reads.
func invalidate() {
	loadMu.Lock()
	defer loadMu.Unlock()
	loadedCfg = nil
	loadedPath = ""
}

// Reset clears test overrides and the cached configuration. Call from test
// cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	dataDirOverride = ""
	configFilePathOverride = ""
	invalidate()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
	invalidate()
}

// SetDataDirOverride sets a custom data directory path, primarily for testing.
func SetDataDirOverride(dir string) {
	dataDirOverride = dir
}

// SetConfigFilePathOverride pins configuration loading to an explicit file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	invalidate()
}
