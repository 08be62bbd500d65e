// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"context"

	"github.com/charmbracelet/huh/spinner"
)

// Spin displays a spinner titled title while action runs, stopping when the
// action returns or ctx is cancelled. In accessible mode the spinner is a
// plain line of text.
func Spin(ctx context.Context, cfg Config, title string, action func()) error {
	return spinner.New().
		Type(spinner.Dots).
		Title(title).
		Context(ctx).
		Accessible(cfg.Accessible).
		Action(action).
		Run()
}
