// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// MenuChooser presents the three-option workflow menu as a huh select. It
// returns the same literal choice strings the plain menu read accepts, so
// dispatch is identical either way.
type MenuChooser struct {
	cfg Config
}

// NewMenuChooser creates a menu chooser with the given configuration.
func NewMenuChooser(cfg Config) *MenuChooser {
	return &MenuChooser{cfg: cfg}
}

// Choose runs the select and returns "1", "2" or "3".
func (m *MenuChooser) Choose(ctx context.Context) (string, error) {
	var choice string

	sel := huh.NewSelect[string]().
		Title("GPS Tools").
		Options(
			huh.NewOption("Test GPS connection", "1"),
			huh.NewOption("Capture GPS data", "2"),
			huh.NewOption("Exit", "3"),
		).
		Value(&choice)

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(themeFor(m.cfg.Scheme)).
		WithAccessible(m.cfg.Accessible)

	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("menu selection: %w", err)
	}
	return choice, nil
}
