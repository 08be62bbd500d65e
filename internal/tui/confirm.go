// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question and returns the answer.
func Confirm(ctx context.Context, cfg Config, title string) (bool, error) {
	var ok bool

	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	form := huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(themeFor(cfg.Scheme)).
		WithAccessible(cfg.Accessible)

	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	return ok, nil
}
