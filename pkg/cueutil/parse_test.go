// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	interpreter: string | *"python3"
	device?: {
		port?: string
		baud?: int
	}
}
`

type testConfig struct {
	Interpreter string `json:"interpreter"`
	Device      struct {
		Port string `json:"port"`
		Baud int    `json:"baud"`
	} `json:"device"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid data decodes", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
interpreter: "python3.12"
device: port: "/dev/ttyACM0"
`)
		result, err := ParseAndDecodeString[testConfig](testSchema, data, "#Config")
		if err != nil {
			t.Fatalf("ParseAndDecodeString() error = %v", err)
		}
		if result.Value.Interpreter != "python3.12" {
			t.Errorf("Interpreter = %q, want %q", result.Value.Interpreter, "python3.12")
		}
		if result.Value.Device.Port != "/dev/ttyACM0" {
			t.Errorf("Device.Port = %q, want %q", result.Value.Device.Port, "/dev/ttyACM0")
		}
	})

	t.Run("schema default fills missing field", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecodeString[testConfig](testSchema, []byte("device: baud: 4800"), "#Config")
		if err != nil {
			t.Fatalf("ParseAndDecodeString() error = %v", err)
		}
		if result.Value.Interpreter != "python3" {
			t.Errorf("Interpreter = %q, want schema default %q", result.Value.Interpreter, "python3")
		}
	})

	t.Run("type mismatch reports path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testConfig](testSchema, []byte("interpreter: 42"), "#Config", WithFilename("config.cue"))
		if err == nil {
			t.Fatal("expected error for type mismatch")
		}
		if !strings.Contains(err.Error(), "config.cue") {
			t.Errorf("error should name the file, got: %v", err)
		}
		if !strings.Contains(err.Error(), "interpreter") {
			t.Errorf("error should name the field, got: %v", err)
		}
	})

	t.Run("missing schema definition is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testConfig](testSchema, []byte("interpreter: \"python3\""), "#Missing")
		if err == nil {
			t.Fatal("expected error for missing schema definition")
		}
		if !strings.Contains(err.Error(), "#Missing") {
			t.Errorf("error should name the definition, got: %v", err)
		}
	})

	t.Run("oversized input is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte("interpreter: \"" + strings.Repeat("x", 64) + "\"")
		_, err := ParseAndDecodeString[testConfig](testSchema, data, "#Config", WithMaxFileSize(16))
		if err == nil {
			t.Fatal("expected error for oversized input")
		}
		if !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("error should mention the size limit, got: %v", err)
		}
	})
}
