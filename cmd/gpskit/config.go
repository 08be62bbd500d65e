// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gpskit/gpskit/internal/config"
	"github.com/gpskit/gpskit/internal/issue"
	"github.com/gpskit/gpskit/internal/tui"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configFormat string

// configCmd is the `gpskit config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gpskit configuration",
	Long: `Manage gpskit configuration.

Configuration is stored in:
  - Linux: ~/.config/gpskit/config.cue
  - macOS: ~/Library/Application Support/gpskit/config.cue
  - Windows: %APPDATA%\gpskit\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long: `Create the default configuration file.

An existing file is left untouched, unless the session is interactive
and you confirm resetting it to the defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initConfigFile(cmd.Context(), cmd.OutOrStdout())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfigPath(cmd.OutOrStdout())
	},
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "", "output format: cue or toml (default is a styled listing)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func showConfig(w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(os.Stderr, issue.ConfigLoadFailedId)
		return err
	}

	switch configFormat {
	case "":
		return showConfigStyled(w, cfg)
	case "cue":
		fmt.Fprint(w, config.GenerateCUE(cfg))
		return nil
	case "toml":
		out, err := renderTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: cue, toml)", configFormat)
	}
}

func showConfigStyled(w io.Writer, cfg *config.Config) error {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path, err := config.ResolvedPath(); err == nil && path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("interpreter"), valueStyle.Render(string(cfg.Interpreter)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("manifest"), valueStyle.Render(string(cfg.Manifest)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("runtime"), valueStyle.Render(string(cfg.Runtime)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("env"))
	fmt.Fprintf(w, "  dir: %s\n", valueStyle.Render(string(cfg.Env.Dir)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("programs"))
	fmt.Fprintf(w, "  test: %s\n", valueStyle.Render(string(cfg.Programs.Test)))
	fmt.Fprintf(w, "  capture: %s\n", valueStyle.Render(string(cfg.Programs.Capture)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("container"))
	fmt.Fprintf(w, "  engine: %s\n", valueStyle.Render(string(cfg.Container.Engine)))
	fmt.Fprintf(w, "  image: %s\n", valueStyle.Render(string(cfg.Container.Image)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("device"))
	if cfg.Device.Port != "" {
		fmt.Fprintf(w, "  port: %s\n", valueStyle.Render(string(cfg.Device.Port)))
	} else {
		fmt.Fprintf(w, "  port: %s\n", SubtitleStyle.Render("(discover automatically)"))
	}
	if cfg.Device.Baud != 0 {
		fmt.Fprintf(w, "  baud: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Device.Baud)))
	} else {
		fmt.Fprintf(w, "  baud: %s\n", SubtitleStyle.Render("(let the programs probe)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("hooks"))
	if len(cfg.Hooks.PostSetup) == 0 {
		fmt.Fprintf(w, "  post_setup: %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		fmt.Fprintf(w, "  post_setup:\n")
		for _, snippet := range cfg.Hooks.PostSetup {
			fmt.Fprintf(w, "    - %s\n", valueStyle.Render(firstLine(snippet)))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("journal"))
	fmt.Fprintf(w, "  enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Journal.Enabled)))
	if cfg.Journal.Path != "" {
		fmt.Fprintf(w, "  path: %s\n", valueStyle.Render(string(cfg.Journal.Path)))
	} else {
		fmt.Fprintf(w, "  path: %s\n", SubtitleStyle.Render("(default data directory)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("serve"))
	fmt.Fprintf(w, "  host: %s\n", valueStyle.Render(cfg.Serve.Host))
	fmt.Fprintf(w, "  port: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Serve.Port)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  interactive: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Interactive)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

// renderTOML serializes the configuration as TOML for tooling that does
// not read CUE.
func renderTOML(cfg *config.Config) (string, error) {
	hooks := cfg.Hooks.PostSetup
	if hooks == nil {
		hooks = []string{}
	}
	doc := map[string]any{
		"interpreter": string(cfg.Interpreter),
		"manifest":    string(cfg.Manifest),
		"runtime":     string(cfg.Runtime),
		"env": map[string]any{
			"dir": string(cfg.Env.Dir),
		},
		"programs": map[string]any{
			"test":    string(cfg.Programs.Test),
			"capture": string(cfg.Programs.Capture),
		},
		"container": map[string]any{
			"engine": string(cfg.Container.Engine),
			"image":  string(cfg.Container.Image),
		},
		"device": map[string]any{
			"port": string(cfg.Device.Port),
			"baud": int(cfg.Device.Baud),
		},
		"hooks": map[string]any{
			"post_setup": hooks,
		},
		"journal": map[string]any{
			"enabled": cfg.Journal.Enabled,
			"path":    string(cfg.Journal.Path),
		},
		"serve": map[string]any{
			"host": cfg.Serve.Host,
			"port": int(cfg.Serve.Port),
		},
		"ui": map[string]any{
			"color_scheme": string(cfg.UI.ColorScheme),
			"interactive":  cfg.UI.Interactive,
			"verbose":      cfg.UI.Verbose,
		},
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render TOML: %w", err)
	}
	return string(out), nil
}

func initConfigFile(ctx context.Context, w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)

	if _, statErr := os.Stat(cfgPath); statErr == nil {
		// The existing file may be the very thing that is broken, so the
		// color scheme comes from the default rather than a config load.
		if !interactive {
			fmt.Fprintf(w, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), cfgPath)
			fmt.Fprintf(w, "Run %s to reset it to the defaults.\n", CmdStyle.Render("gpskit -i config init"))
			return nil
		}
		ok, confirmErr := tui.Confirm(ctx, tui.DefaultConfig("auto"), "A configuration file already exists. Reset it to the defaults?")
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			fmt.Fprintf(w, "Keeping %s\n", cfgPath)
			return nil
		}
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to reset config: %w", err)
		}
		fmt.Fprintf(w, "%s Reset configuration to defaults at %s\n", SuccessStyle.Render("✓"), cfgPath)
		return nil
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s/%s.%s\n", cfgDir, config.ConfigFileName, config.ConfigFileExt)

	if dataDir, err := config.DataDir(); err == nil {
		fmt.Fprintf(w, "Data directory: %s\n", dataDir)
	}

	return nil
}

// firstLine trims a hook snippet to its first line for the listing.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
