// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gpskit/gpskit/internal/testutil"
	"github.com/gpskit/gpskit/pkg/types"
)

func TestLoadOptions_Validate_AllEmpty(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{}
	err := opts.Validate()
	if err != nil {
		t.Errorf("empty LoadOptions should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_AllValid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: "/tmp/config.cue",
		ConfigDirPath:  "/tmp/config",
	}
	err := opts.Validate()
	if err != nil {
		t.Errorf("LoadOptions with valid paths should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_InvalidConfigFilePath(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with whitespace-only ConfigFilePath should be invalid")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 1 {
		t.Errorf("expected 1 field error, got %d", len(loadErr.FieldErrors))
	}
}

func TestLoadOptions_Validate_MultipleInvalid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
		ConfigDirPath:  types.FilesystemPath("\t"),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with all invalid paths should be invalid")
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(loadErr.FieldErrors), loadErr.FieldErrors)
	}
}

func TestLoadOptions_Validate_MixedEmptyAndInvalid(t *testing.T) {
	t.Parallel()
	// Empty fields are valid (zero-value means "use default"),
	// only non-empty invalid fields should be caught.
	opts := LoadOptions{
		ConfigFilePath: "",
		ConfigDirPath:  types.FilesystemPath("   "),
	}
	err := opts.Validate()
	if err == nil {
		t.Fatal("LoadOptions with one invalid field should be invalid")
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 1 {
		t.Errorf("expected 1 field error (only ConfigDirPath), got %d", len(loadErr.FieldErrors))
	}
}

func TestInvalidLoadOptionsError_Error_Single(t *testing.T) {
	t.Parallel()
	err := &InvalidLoadOptionsError{
		FieldErrors: []error{errors.New("test error")},
	}
	msg := err.Error()
	if msg != "invalid load options: test error" {
		t.Errorf("Error() = %q, want %q", msg, "invalid load options: test error")
	}
}

func TestInvalidLoadOptionsError_Error_Multiple(t *testing.T) {
	t.Parallel()
	err := &InvalidLoadOptionsError{
		FieldErrors: []error{errors.New("err1"), errors.New("err2")},
	}
	msg := err.Error()
	if msg != "invalid load options: 2 field errors" {
		t.Errorf("Error() = %q, want %q", msg, "invalid load options: 2 field errors")
	}
}

func TestInvalidLoadOptionsError_Unwrap(t *testing.T) {
	t.Parallel()
	err := &InvalidLoadOptionsError{
		FieldErrors: []error{errors.New("test")},
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Error("Unwrap() should return ErrInvalidLoadOptions")
	}
}

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file %s: %v", path, err)
	}
}

func TestProvider_Load_ConfigDirPath(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	writeConfigFile(t, cuePath, `runtime: "container"`)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(tmpDir),
	})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Runtime != RuntimeContainer {
		t.Errorf("Runtime = %s, want container", cfg.Runtime)
	}
	if path != cuePath {
		t.Errorf("resolved path = %s, want %s", path, cuePath)
	}
	// Unset fields fall back to defaults
	if cfg.Interpreter != "python3" {
		t.Errorf("Interpreter = %s, want python3", cfg.Interpreter)
	}
}

func TestProvider_Load_ExplicitFileBeatsConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfigFile(t, filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt), `runtime: "container"`)

	explicitPath := filepath.Join(tmpDir, "override.cue")
	writeConfigFile(t, explicitPath, `container: {engine: "podman"}`)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(explicitPath),
		ConfigDirPath:  types.FilesystemPath(tmpDir),
	})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if path != explicitPath {
		t.Errorf("resolved path = %s, want %s", path, explicitPath)
	}
	if cfg.Container.Engine != ContainerEnginePodman {
		t.Errorf("Container.Engine = %s, want podman", cfg.Container.Engine)
	}
	// The config dir file must not have been consulted
	if cfg.Runtime != RuntimeNative {
		t.Errorf("Runtime = %s, want native (dir config should be ignored)", cfg.Runtime)
	}
}

func TestProvider_Load_DefaultsWhenNoFile(t *testing.T) {
	tmpDir := t.TempDir()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(filepath.Join(tmpDir, "empty")),
	})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if path != "" {
		t.Errorf("resolved path = %q, want empty for defaults", path)
	}
	defaults := DefaultConfig()
	if cfg.Manifest != defaults.Manifest {
		t.Errorf("Manifest = %s, want %s", cfg.Manifest, defaults.Manifest)
	}
}

func TestProvider_Load_WorkingDirFallback(t *testing.T) {
	tmpDir := t.TempDir()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	writeConfigFile(t, ConfigFileName+"."+ConfigFileExt, `device: {port: "/dev/ttyACM0", baud: 9600}`)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(filepath.Join(tmpDir, "empty")),
	})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if path != ConfigFileName+"."+ConfigFileExt {
		t.Errorf("resolved path = %q, want local config file", path)
	}
	if cfg.Device.Port != "/dev/ttyACM0" {
		t.Errorf("Device.Port = %s, want /dev/ttyACM0", cfg.Device.Port)
	}
	if cfg.Device.Baud != 9600 {
		t.Errorf("Device.Baud = %d, want 9600", cfg.Device.Baud)
	}
}

func TestProvider_Load_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath("   "),
	})
	if err == nil {
		t.Fatal("expected error for whitespace-only ConfigDirPath")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}
}

func TestProvider_Load_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewProvider().Load(ctx, LoadOptions{})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !strings.Contains(err.Error(), "load config canceled") {
		t.Errorf("error = %v, want load config canceled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got: %v", err)
	}
}
