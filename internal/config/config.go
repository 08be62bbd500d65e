// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gpskit/gpskit/internal/issue"
	"github.com/gpskit/gpskit/pkg/cueutil"
	"github.com/gpskit/gpskit/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "gpskit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the gpskit configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DataDir returns the gpskit data directory, home of the session journal.
// Windows uses %LOCALAPPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_DATA_HOME (defaulting to ~/.local/share).
func DataDir() (string, error) {
	// Allow tests to override the data directory
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}

	var dataDir string

	switch runtime.GOOS {
	case platform.Windows:
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("interpreter", defaults.Interpreter)
	v.SetDefault("env.dir", defaults.Env.Dir)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("programs.test", defaults.Programs.Test)
	v.SetDefault("programs.capture", defaults.Programs.Capture)
	v.SetDefault("runtime", defaults.Runtime)
	v.SetDefault("container.engine", defaults.Container.Engine)
	v.SetDefault("container.image", defaults.Container.Image)
	v.SetDefault("device.port", defaults.Device.Port)
	v.SetDefault("device.baud", defaults.Device.Baud)
	v.SetDefault("hooks.post_setup", defaults.Hooks.PostSetup)
	v.SetDefault("journal.enabled", defaults.Journal.Enabled)
	v.SetDefault("journal.path", defaults.Journal.Path)
	v.SetDefault("serve.host", defaults.Serve.Host)
	v.SetDefault("serve.port", defaults.Serve.Port)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		explicitPath := opts.ConfigFilePath.String()
		if !fileExists(explicitPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(explicitPath).
				WithSuggestions(
					"Verify the file path is correct",
					"Check that the file exists and is readable",
					"Use 'gpskit config show' to see default configuration",
				).
				Wrap(fmt.Errorf("config file not found: %s", explicitPath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, explicitPath); err != nil {
			return nil, "", cueLoadError(explicitPath, err)
		}
		resolvedPath = explicitPath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
		if err != nil {
			return nil, "", err
		}

		// Config-dir file first, then the working directory fallback.
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", cueLoadError(cuePath, err)
			}
			resolvedPath = cuePath
		} else {
			localCuePath := ConfigFileName + "." + ConfigFileExt
			if fileExists(localCuePath) {
				if err := loadCUEIntoViper(v, localCuePath); err != nil {
					return nil, "", cueLoadError(localCuePath, err)
				}
				resolvedPath = localCuePath
			}
			// No config file anywhere: builtin defaults apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate the assembled config. The schema already constrains file
	// contents, but flag and default injection bypass CUE, so the typed
	// validators are the net that catches whatever arrives by other routes.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check the reported fields against 'gpskit config show'").
			WithSuggestion("Remove the offending overrides or correct their values").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// cueLoadError wraps a CUE parse or validation failure with the fix hints
// every load path shares.
func cueLoadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestions(
			"Check that the file contains valid CUE syntax",
			"Verify the configuration values match the expected schema",
			"See 'gpskit config --help' for configuration options",
		).
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Validation is non-concrete since every
// config field is optional; whatever the file leaves open stays on the
// defaults already registered with Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// EnsureDataDir creates the data directory if it doesn't exist
func EnsureDataDir() error {
	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dataDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration.
// Zero-valid override fields (device port, device baud, journal path) are
// emitted only when set, so a default config round-trips cleanly.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// gpskit configuration file\n")
	sb.WriteString("// See https://github.com/gpskit/gpskit for documentation.\n\n")

	sb.WriteString(fmt.Sprintf("interpreter: %q\n", cfg.Interpreter))

	sb.WriteString("\nenv: {\n")
	sb.WriteString(fmt.Sprintf("\tdir: %q\n", cfg.Env.Dir))
	sb.WriteString("}\n")

	sb.WriteString(fmt.Sprintf("\nmanifest: %q\n", cfg.Manifest))

	sb.WriteString("\nprograms: {\n")
	sb.WriteString(fmt.Sprintf("\ttest: %q\n", cfg.Programs.Test))
	sb.WriteString(fmt.Sprintf("\tcapture: %q\n", cfg.Programs.Capture))
	sb.WriteString("}\n")

	sb.WriteString(fmt.Sprintf("\nruntime: %q\n", cfg.Runtime))

	sb.WriteString("\ncontainer: {\n")
	sb.WriteString(fmt.Sprintf("\tengine: %q\n", cfg.Container.Engine))
	sb.WriteString(fmt.Sprintf("\timage: %q\n", cfg.Container.Image))
	sb.WriteString("}\n")

	if cfg.Device.Port != "" || cfg.Device.Baud != 0 {
		sb.WriteString("\ndevice: {\n")
		if cfg.Device.Port != "" {
			sb.WriteString(fmt.Sprintf("\tport: %q\n", cfg.Device.Port))
		}
		if cfg.Device.Baud != 0 {
			sb.WriteString(fmt.Sprintf("\tbaud: %d\n", cfg.Device.Baud))
		}
		sb.WriteString("}\n")
	}

	if len(cfg.Hooks.PostSetup) > 0 {
		sb.WriteString("\nhooks: {\n")
		sb.WriteString("\tpost_setup: [\n")
		for _, snippet := range cfg.Hooks.PostSetup {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", snippet))
		}
		sb.WriteString("\t]\n")
		sb.WriteString("}\n")
	}

	sb.WriteString("\njournal: {\n")
	sb.WriteString(fmt.Sprintf("\tenabled: %v\n", cfg.Journal.Enabled))
	if cfg.Journal.Path != "" {
		sb.WriteString(fmt.Sprintf("\tpath: %q\n", cfg.Journal.Path))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nserve: {\n")
	sb.WriteString(fmt.Sprintf("\thost: %q\n", cfg.Serve.Host))
	sb.WriteString(fmt.Sprintf("\tport: %d\n", cfg.Serve.Port))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tinteractive: %v\n", cfg.UI.Interactive))
	sb.WriteString("}\n")

	return sb.String()
}
