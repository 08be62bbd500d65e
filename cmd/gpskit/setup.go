// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// setupCmd prepares the workspace without presenting the menu.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prepare the Python workspace",
	Long: `Prepare the Python workspace without launching anything.

Runs the bootstrap steps of the workflow: locate the interpreter, create
the virtual environment if it does not exist, install the requirements
manifest and run any configured post-setup hooks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		wired, err := buildLauncher(cfg, launchOptions{})
		if err != nil {
			return err
		}
		defer wired.Close()

		if _, err := wired.launcher.Setup(cmd.Context()); err != nil {
			reportRunError(os.Stderr, err)
			return exitSilently(cmd, 1)
		}

		fmt.Printf("%s Workspace ready\n", SuccessStyle.Render("✓"))
		return nil
	},
}
