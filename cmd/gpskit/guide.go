// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var guideMarkdown string

// guideCmd renders the embedded hardware setup guide.
var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the receiver setup guide",
	Long: `Show the GPS receiver setup guide.

Covers cabling, per-OS serial port naming, Linux permissions, macOS
drivers, Windows COM ports and baud rates.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStylePath(issueStyle()),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("failed to build markdown renderer: %w", err)
		}

		out, err := renderer.Render(guideMarkdown)
		if err != nil {
			return fmt.Errorf("failed to render guide: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
