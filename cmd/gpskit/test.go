// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/gpskit/gpskit/internal/launcher"

	"github.com/spf13/cobra"
)

// testCmd runs the connection-test program directly.
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the GPS connection test",
	Long: `Run the GPS connection test program once, without the menu.

The workspace is prepared first if needed. Unlike the menu path, the
program's exit code becomes the process status, so the command can gate
a script or pipeline.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEntry(cmd, launcher.ChoiceTest)
	},
}
