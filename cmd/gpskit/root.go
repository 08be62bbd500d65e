// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for gpskit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gpskit/gpskit/internal/config"
	"github.com/gpskit/gpskit/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// interactive replaces the plain menu read with the selector UI
	interactive bool
	// runtimeOverride selects the execution runtime over the configured one
	runtimeOverride string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "gpskit",
		Short: "Bootstrap and launch the GPS receiver tools",
		Long: TitleStyle.Render("gpskit") + SubtitleStyle.Render(" - Bootstrap and launch the GPS receiver tools") + `

gpskit prepares a Python workspace for a serial GPS receiver and runs
the bundled entry programs. A bare invocation checks the interpreter,
creates the virtual environment, installs the requirements manifest and
presents the menu; subcommands run single steps directly.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Plug in the receiver
  2. Run: gpskit
  3. Pick an option from the menu

` + SubtitleStyle.Render("Examples:") + `
  gpskit                    Run the guided workflow
  gpskit test               Run the connection test once
  gpskit capture            Start a capture session
  gpskit doctor             Check the workspace and receiver
  gpskit serve              Share the workflow over SSH
  gpskit config show        Show current configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd)
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gpskit/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&interactive, "interactive", "i", false, "use the selector UI instead of the plain menu")
	rootCmd.PersistentFlags().StringVar(&runtimeOverride, "runtime", "", "execution runtime: native or container (default is the configured runtime)")

	// Add subcommands
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors; the workflow continues on
		// built-in defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	// Apply interactive from config if not set via flag
	if cfg != nil && !interactive {
		interactive = cfg.UI.Interactive
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := issue.AsActionable(err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}

// GetInteractive returns the interactive flag value
func GetInteractive() bool {
	return interactive
}
