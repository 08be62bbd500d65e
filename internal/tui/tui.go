// SPDX-License-Identifier: EPL-2.0

// Package tui provides the interactive prompts layered over the plain
// launcher surface: the menu select used in interactive mode, a confirm
// prompt, and a spinner for long waits. It wraps charmbracelet/huh; the
// plain launcher path never goes through this package, so the workflow's
// byte contract is untouched.
package tui

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Config holds common configuration for the prompts.
type Config struct {
	// Scheme is the configured color scheme name ("auto", "dark", "light").
	Scheme string
	// Accessible enables plain sequential prompts for screen readers and
	// non-terminal input.
	Accessible bool
}

// DefaultConfig builds a Config for the given color scheme. Accessible mode
// is enabled automatically when stdin is not a terminal (pipes, command
// substitution) or the ACCESSIBLE environment variable is set.
func DefaultConfig(scheme string) Config {
	return Config{
		Scheme:     scheme,
		Accessible: !isInputTerminal() || os.Getenv("ACCESSIBLE") != "",
	}
}

// isInputTerminal reports whether stdin is connected to a terminal.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// themeFor converts a color scheme name to a huh theme.
func themeFor(scheme string) *huh.Theme {
	switch scheme {
	case "dark":
		return huh.ThemeCharm()
	case "light":
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}
