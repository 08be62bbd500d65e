// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded launcher sessions, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sessions",
	Long: `Show recent launcher sessions from the journal, newest first.

Each dispatched run is recorded with its start time, choice, program,
exit code and duration. The journal location follows the configuration;
recording can be turned off with journal.enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		stdout := cmd.OutOrStdout()

		store, err := openJournal(cfg)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() { _ = store.Close() }()

		sessions, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		fmt.Fprintln(stdout, TitleStyle.Render("Session History"))
		fmt.Fprintln(stdout)

		if len(sessions) == 0 {
			fmt.Fprintln(stdout, SubtitleStyle.Render("No sessions recorded yet."))
			if !cfg.Journal.Enabled {
				fmt.Fprintln(stdout, SubtitleStyle.Render("Journaling is currently disabled."))
			}
			return nil
		}

		for _, sess := range sessions {
			status := SuccessStyle.Render("ok")
			if sess.ExitCode != 0 {
				status = ErrorStyle.Render(fmt.Sprintf("exit %d", sess.ExitCode))
			}
			// Styled fields go last; ANSI escapes would throw off the
			// column widths.
			fmt.Fprintf(stdout, "%s  %-8s %-16s %-10s %s\n",
				SubtitleStyle.Render(sess.StartedAt.Local().Format("2006-01-02 15:04:05")),
				sess.Choice,
				sess.Program,
				sess.Duration.Truncate(time.Millisecond).String(),
				status,
			)
		}

		if !cfg.Journal.Enabled {
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, SubtitleStyle.Render("Journaling is currently disabled; these are older sessions."))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of sessions to show")
}
