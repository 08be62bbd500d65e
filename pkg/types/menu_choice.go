// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

// ErrInvalidMenuChoice is the sentinel error wrapped by InvalidMenuChoiceError.
var ErrInvalidMenuChoice = errors.New("invalid menu choice")

// Menu choices accepted by the launcher. The values are the literal lines a
// user types at the menu prompt.
const (
	// MenuChoiceTest runs the GPS connection test program.
	MenuChoiceTest MenuChoice = "1"
	// MenuChoiceCapture runs the GPS data capture program.
	MenuChoiceCapture MenuChoice = "2"
	// MenuChoiceExit leaves the menu without running anything.
	MenuChoiceExit MenuChoice = "3"
)

type (
	// MenuChoice represents one line of user input at the launcher menu
	// prompt. Only the literal strings "1", "2" and "3" are valid; anything
	// else (including the empty string) is rejected. Input is never trimmed
	// beyond the trailing newline, so " 1" is not a valid choice.
	MenuChoice string

	// InvalidMenuChoiceError is returned when a MenuChoice is not one of
	// the three accepted menu options.
	InvalidMenuChoiceError struct {
		Value MenuChoice
	}
)

// String returns the string representation of the MenuChoice.
func (c MenuChoice) String() string { return string(c) }

// IsValid returns whether the MenuChoice is one of the accepted options.
func (c MenuChoice) IsValid() (bool, []error) {
	switch c {
	case MenuChoiceTest, MenuChoiceCapture, MenuChoiceExit:
		return true, nil
	}
	return false, []error{&InvalidMenuChoiceError{Value: c}}
}

// Error implements the error interface for InvalidMenuChoiceError.
func (e *InvalidMenuChoiceError) Error() string {
	return fmt.Sprintf("invalid menu choice %q: must be \"1\", \"2\" or \"3\"", e.Value)
}

// Unwrap returns ErrInvalidMenuChoice for errors.Is() compatibility.
func (e *InvalidMenuChoiceError) Unwrap() error { return ErrInvalidMenuChoice }
