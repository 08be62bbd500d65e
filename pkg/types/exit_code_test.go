// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   ExitCode
		wantErr bool
	}{
		{name: "success code", value: 0},
		{name: "ordinary failure", value: 1},
		{name: "shell command-not-found", value: 127},
		{name: "upper bound", value: 255},
		{name: "negative", value: -1, wantErr: true},
		{name: "past upper bound", value: 256, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExitCode) {
					t.Errorf("Validate() = %v, want ErrInvalidExitCode wrap", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v for valid code %d", err, tt.value)
			}
		})
	}
}

func TestExitCode_IsSuccessAndString(t *testing.T) {
	t.Parallel()

	if !ExitCode(0).IsSuccess() {
		t.Error("0 should be success")
	}
	if ExitCode(3).IsSuccess() {
		t.Error("3 should not be success")
	}
	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("String() = %q, want %q", got, "42")
	}
}
