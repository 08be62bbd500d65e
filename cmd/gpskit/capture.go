// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/gpskit/gpskit/internal/launcher"

	"github.com/spf13/cobra"
)

// captureCmd runs the data-capture program directly.
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture GPS data",
	Long: `Run the GPS capture program once, without the menu.

The workspace is prepared first if needed. The capture program owns the
terminal until it finishes or is interrupted; its exit code becomes the
process status.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEntry(cmd, launcher.ChoiceCapture)
	},
}
