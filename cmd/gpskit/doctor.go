// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gpskit/gpskit/internal/config"
	"github.com/gpskit/gpskit/internal/container"
	"github.com/gpskit/gpskit/internal/device"
	"github.com/gpskit/gpskit/internal/issue"
	"github.com/gpskit/gpskit/internal/manifest"
	"github.com/gpskit/gpskit/internal/python"
	"github.com/gpskit/gpskit/internal/runtime"
	"github.com/gpskit/gpskit/internal/tui"
	"github.com/gpskit/gpskit/internal/venv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Style definitions for doctor output
var (
	doctorPassIcon = SuccessStyle.Render("✓")
	doctorWarnIcon = WarningStyle.Render("!")
	doctorFailIcon = ErrorStyle.Render("✗")
	doctorInfoIcon = SubtitleStyle.Render("•")

	doctorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				MarginBottom(1)
)

var doctorWait bool

// doctorCmd checks the workspace, the receiver and the configured runtime.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the workspace and receiver",
	Long: `Check that the workflow can run: interpreter, virtual environment,
requirements manifest, serial ports, container engine and journal.

Failures exit non-zero. Warnings point at things the workflow can work
around, like a port that needs a group membership.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorWait, "wait", false, "wait for a receiver when no serial port is found")
}

func runDoctor(cmd *cobra.Command) error {
	cfg := currentConfig()
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	fmt.Fprintln(stdout, doctorTitleStyle.Render("Workspace Checkup"))

	var fails, warns int

	// Interpreter
	interp, findErr := python.NewLocator().Find(ctx, string(cfg.Interpreter))
	switch {
	case findErr != nil:
		fmt.Fprintf(stdout, "%s Interpreter: %s not found on PATH\n", doctorFailIcon, cfg.Interpreter)
		fails++
	default:
		ok, verErr := interp.MeetsMinimum("3.8")
		switch {
		case verErr != nil:
			fmt.Fprintf(stdout, "%s Interpreter: %s reported %q\n", doctorWarnIcon, interp.Command, interp.Version)
			warns++
		case !ok:
			fmt.Fprintf(stdout, "%s Interpreter: %s is older than Python 3.8\n", doctorWarnIcon, interp.Version)
			warns++
		default:
			fmt.Fprintf(stdout, "%s Interpreter: %s %s\n", doctorPassIcon, interp.Version, SubtitleStyle.Render("("+interp.Path+")"))
		}
	}

	// Virtual environment
	envDir := resolvePath(workDir, string(cfg.Env.Dir), venv.DefaultDir)
	env := venv.New(envDir, string(cfg.Interpreter), runtime.NewNativeRuntime())
	if env.Exists() {
		fmt.Fprintf(stdout, "%s Virtual environment: %s\n", doctorPassIcon, envDir)
	} else {
		fmt.Fprintf(stdout, "%s Virtual environment: not created yet, run %s\n", doctorInfoIcon, CmdStyle.Render("gpskit setup"))
	}

	// Requirements manifest
	manifestPath := resolvePath(workDir, string(cfg.Manifest), manifest.DefaultPath)
	reqs, reqErr := manifest.ParseFile(manifestPath)
	if reqErr != nil {
		fmt.Fprintf(stdout, "%s Manifest: %v\n", doctorWarnIcon, reqErr)
		warns++
	} else {
		fmt.Fprintf(stdout, "%s Manifest: %d requirement(s) in %s\n", doctorPassIcon, len(reqs), manifestPath)
	}

	// Receiver ports
	fails, warns = checkReceiver(ctx, cfg, stdout, stderr, fails, warns)

	// Container engine
	if cfg.Runtime == config.RuntimeContainer {
		engine, engErr := container.NewEngine(container.EngineType(cfg.Container.Engine))
		if engErr != nil {
			fmt.Fprintf(stdout, "%s Container engine: %v\n", doctorFailIcon, engErr)
			fails++
			renderIssue(stderr, issue.ContainerEngineNotFoundId)
		} else {
			fmt.Fprintf(stdout, "%s Container engine: %s %s\n", doctorPassIcon, engine.Name(), SubtitleStyle.Render("("+engine.BinaryPath()+")"))
		}
	} else if verbose {
		fmt.Fprintf(stdout, "%s Container engine: not needed for the native runtime\n", doctorInfoIcon)
	}

	// Journal
	if cfg.Journal.Enabled {
		store, jErr := openJournal(cfg)
		if jErr != nil {
			fmt.Fprintf(stdout, "%s Journal: %v\n", doctorWarnIcon, jErr)
			warns++
		} else {
			_ = store.Close()
			fmt.Fprintf(stdout, "%s Journal: writable\n", doctorPassIcon)
		}
	} else if verbose {
		fmt.Fprintf(stdout, "%s Journal: disabled\n", doctorInfoIcon)
	}

	fmt.Fprintln(stdout)
	switch {
	case fails > 0:
		fmt.Fprintf(stdout, "%s %d check(s) failed, %d warning(s)\n", doctorFailIcon, fails, warns)
		return exitSilently(cmd, 1)
	case warns > 0:
		fmt.Fprintf(stdout, "%s All checks passed with %d warning(s)\n", doctorWarnIcon, warns)
	default:
		fmt.Fprintf(stdout, "%s All checks passed\n", doctorPassIcon)
	}
	return nil
}

// checkReceiver reports the discovered serial ports, waiting for one first
// when --wait was given and none is present.
func checkReceiver(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, fails, warns int) (int, int) {
	cands, err := device.Discover()
	if err != nil {
		fmt.Fprintf(stdout, "%s Receiver: %v\n", doctorWarnIcon, err)
		return fails, warns + 1
	}

	if len(cands) == 0 && doctorWait {
		cand, waitErr := waitForReceiver(ctx, cfg)
		switch {
		case errors.Is(waitErr, device.ErrWatchUnsupported):
			fmt.Fprintf(stdout, "%s Receiver: %v\n", doctorWarnIcon, waitErr)
			return fails, warns + 1
		case waitErr != nil:
			fmt.Fprintf(stdout, "%s Receiver: stopped waiting: %v\n", doctorFailIcon, waitErr)
			renderIssue(stderr, issue.DeviceNotFoundId)
			return fails + 1, warns
		default:
			cands = []device.Candidate{cand}
		}
	}

	if len(cands) == 0 {
		fmt.Fprintf(stdout, "%s Receiver: no serial ports found\n", doctorFailIcon)
		renderIssue(stderr, issue.DeviceNotFoundId)
		return fails + 1, warns
	}

	denied := false
	for _, cand := range cands {
		name := "unknown receiver"
		if cand.Profile != nil {
			name = cand.Profile.Name
		}
		if cand.Access.Writable {
			fmt.Fprintf(stdout, "%s Receiver: %s %s\n", doctorPassIcon, cand.Path, SubtitleStyle.Render("("+name+")"))
			continue
		}
		fmt.Fprintf(stdout, "%s Receiver: %s %s is not writable\n", doctorWarnIcon, cand.Path, SubtitleStyle.Render("("+name+")"))
		if cand.Access.Hint != "" {
			fmt.Fprintf(stdout, "   %s\n", SubtitleStyle.Render(cand.Access.Hint))
		}
		warns++
		denied = true
	}
	if denied {
		renderIssue(stderr, issue.DevicePermissionDeniedId)
	}
	return fails, warns
}

// waitForReceiver blocks until a serial port appears, drawing a spinner
// while it waits.
func waitForReceiver(ctx context.Context, cfg *config.Config) (device.Candidate, error) {
	var (
		cand device.Candidate
		err  error
	)
	spinErr := tui.Spin(ctx, tui.DefaultConfig(string(cfg.UI.ColorScheme)), "Waiting for a receiver...", func() {
		cand, err = device.WaitForPort(ctx)
	})
	if spinErr != nil {
		return device.Candidate{}, spinErr
	}
	return cand, err
}
