// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gpskit/gpskit/pkg/types"
)

const (
	// ContainerEngineDocker uses the Docker CLI for the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses the Podman CLI for the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"

	// RuntimeNative runs the GPS workflow directly on the host.
	// Defined locally to avoid coupling config to internal/runtime;
	// the command layer casts at the boundary.
	RuntimeNative RuntimeMode = "native"
	// RuntimeContainer runs the GPS workflow inside a container.
	RuntimeContainer RuntimeMode = "container"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidInterpreterCommand is returned when an InterpreterCommand value is blank.
	ErrInvalidInterpreterCommand = errors.New("invalid interpreter command")
	// ErrInvalidEnvDirPath is returned when an EnvDirPath value is blank.
	ErrInvalidEnvDirPath = errors.New("invalid environment dir path")
	// ErrInvalidManifestPath is returned when a ManifestPath value is blank.
	ErrInvalidManifestPath = errors.New("invalid manifest path")
	// ErrInvalidProgramPath is returned when a ProgramPath value is blank.
	ErrInvalidProgramPath = errors.New("invalid program path")
	// ErrInvalidContainerImage is returned when a ContainerImage value is blank.
	ErrInvalidContainerImage = errors.New("invalid container image")
	// ErrInvalidDevicePortPath is returned when a DevicePortPath value is whitespace-only.
	ErrInvalidDevicePortPath = errors.New("invalid device port path")
	// ErrInvalidJournalPath is returned when a JournalPath value is whitespace-only.
	ErrInvalidJournalPath = errors.New("invalid journal path")
	// ErrInvalidEnvConfig is the sentinel error wrapped by InvalidEnvConfigError.
	ErrInvalidEnvConfig = errors.New("invalid env config")
	// ErrInvalidProgramsConfig is the sentinel error wrapped by InvalidProgramsConfigError.
	ErrInvalidProgramsConfig = errors.New("invalid programs config")
	// ErrInvalidContainerConfig is the sentinel error wrapped by InvalidContainerConfigError.
	ErrInvalidContainerConfig = errors.New("invalid container config")
	// ErrInvalidDeviceConfig is the sentinel error wrapped by InvalidDeviceConfigError.
	ErrInvalidDeviceConfig = errors.New("invalid device config")
	// ErrInvalidHooksConfig is the sentinel error wrapped by InvalidHooksConfigError.
	ErrInvalidHooksConfig = errors.New("invalid hooks config")
	// ErrInvalidJournalConfig is the sentinel error wrapped by InvalidJournalConfigError.
	ErrInvalidJournalConfig = errors.New("invalid journal config")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid serve config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container CLI to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// RuntimeMode specifies where the GPS workflow executes.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a config RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InterpreterCommand is the name or path of the Python interpreter used
	// to bootstrap the environment. A valid command must not be blank.
	InterpreterCommand string

	// InvalidInterpreterCommandError is returned when an InterpreterCommand
	// is empty or whitespace-only. It wraps ErrInvalidInterpreterCommand.
	InvalidInterpreterCommandError struct {
		Value InterpreterCommand
	}

	// EnvDirPath is the virtual environment directory, relative to the
	// workspace or absolute. A valid path must not be blank.
	EnvDirPath string

	// InvalidEnvDirPathError is returned when an EnvDirPath is empty or
	// whitespace-only. It wraps ErrInvalidEnvDirPath.
	InvalidEnvDirPathError struct {
		Value EnvDirPath
	}

	// ManifestPath is the pip requirements manifest path. A valid path must
	// not be blank.
	ManifestPath string

	// InvalidManifestPathError is returned when a ManifestPath is empty or
	// whitespace-only. It wraps ErrInvalidManifestPath.
	InvalidManifestPathError struct {
		Value ManifestPath
	}

	// ProgramPath is the path of a GPS entry program. A valid path must not
	// be blank.
	ProgramPath string

	// InvalidProgramPathError is returned when a ProgramPath is empty or
	// whitespace-only. It wraps ErrInvalidProgramPath.
	InvalidProgramPathError struct {
		Value ProgramPath
	}

	// ContainerImage is the image the container runtime executes in. A valid
	// image reference must not be blank.
	ContainerImage string

	// InvalidContainerImageError is returned when a ContainerImage is empty
	// or whitespace-only. It wraps ErrInvalidContainerImage.
	InvalidContainerImageError struct {
		Value ContainerImage
	}

	// DevicePortPath is the serial port the receiver is attached to.
	// The zero value ("") is valid and means "discover automatically".
	// Non-zero values must not be whitespace-only.
	DevicePortPath string

	// InvalidDevicePortPathError is returned when a DevicePortPath is
	// non-empty but whitespace-only. It wraps ErrInvalidDevicePortPath.
	InvalidDevicePortPathError struct {
		Value DevicePortPath
	}

	// JournalPath is the session journal database path. The zero value ("")
	// is valid and means "use the default data directory". Non-zero values
	// must not be whitespace-only.
	JournalPath string

	// InvalidJournalPathError is returned when a JournalPath is non-empty
	// but whitespace-only. It wraps ErrInvalidJournalPath.
	InvalidJournalPathError struct {
		Value JournalPath
	}

	// InvalidEnvConfigError is returned when an EnvConfig has invalid fields.
	InvalidEnvConfigError struct {
		FieldErrors []error
	}

	// InvalidProgramsConfigError is returned when a ProgramsConfig has invalid fields.
	InvalidProgramsConfigError struct {
		FieldErrors []error
	}

	// InvalidContainerConfigError is returned when a ContainerConfig has invalid fields.
	InvalidContainerConfigError struct {
		FieldErrors []error
	}

	// InvalidDeviceConfigError is returned when a DeviceConfig has invalid fields.
	InvalidDeviceConfigError struct {
		FieldErrors []error
	}

	// InvalidHooksConfigError is returned when a HooksConfig has invalid fields.
	InvalidHooksConfigError struct {
		FieldErrors []error
	}

	// InvalidJournalConfigError is returned when a JournalConfig has invalid fields.
	InvalidJournalConfigError struct {
		FieldErrors []error
	}

	// InvalidServeConfigError is returned when a ServeConfig has invalid fields.
	InvalidServeConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Interpreter is the host interpreter used for bootstrapping.
		Interpreter InterpreterCommand `json:"interpreter" mapstructure:"interpreter"`
		// Env configures the virtual environment.
		Env EnvConfig `json:"env" mapstructure:"env"`
		// Manifest is the pip requirements file.
		Manifest ManifestPath `json:"manifest" mapstructure:"manifest"`
		// Programs names the two GPS entry points.
		Programs ProgramsConfig `json:"programs" mapstructure:"programs"`
		// Runtime selects where the workflow executes.
		Runtime RuntimeMode `json:"runtime" mapstructure:"runtime"`
		// Container configures the container runtime.
		Container ContainerConfig `json:"container" mapstructure:"container"`
		// Device carries optional receiver overrides exported to the entry
		// programs as GPS_PORT / GPS_BAUD.
		Device DeviceConfig `json:"device" mapstructure:"device"`
		// Hooks configures post-setup shell snippets.
		Hooks HooksConfig `json:"hooks" mapstructure:"hooks"`
		// Journal configures the session history store.
		Journal JournalConfig `json:"journal" mapstructure:"journal"`
		// Serve configures the SSH server.
		Serve ServeConfig `json:"serve" mapstructure:"serve"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// EnvConfig configures the virtual environment.
	EnvConfig struct {
		// Dir is the environment directory.
		Dir EnvDirPath `json:"dir" mapstructure:"dir"`
	}

	// ProgramsConfig names the GPS entry programs.
	ProgramsConfig struct {
		// Test is the connection-test entry point.
		Test ProgramPath `json:"test" mapstructure:"test"`
		// Capture is the data-capture entry point.
		Capture ProgramPath `json:"capture" mapstructure:"capture"`
	}

	// ContainerConfig configures the container runtime.
	ContainerConfig struct {
		// Engine selects docker or podman.
		Engine ContainerEngine `json:"engine" mapstructure:"engine"`
		// Image is the Python image the workflow runs in.
		Image ContainerImage `json:"image" mapstructure:"image"`
	}

	// DeviceConfig carries optional receiver overrides.
	DeviceConfig struct {
		// Port is the serial port, empty for automatic discovery.
		Port DevicePortPath `json:"port" mapstructure:"port"`
		// Baud is the line speed, zero to let the entry programs probe.
		Baud types.BaudRate `json:"baud" mapstructure:"baud"`
	}

	// HooksConfig configures lifecycle hooks.
	HooksConfig struct {
		// PostSetup holds shell snippets run after a successful setup, in
		// order, in the embedded shell interpreter.
		PostSetup []string `json:"post_setup" mapstructure:"post_setup"`
	}

	// JournalConfig configures the session history store.
	JournalConfig struct {
		// Enabled toggles session recording.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Path overrides the journal database location.
		Path JournalPath `json:"path" mapstructure:"path"`
	}

	// ServeConfig configures the SSH server.
	ServeConfig struct {
		// Host is the listen address.
		Host string `json:"host" mapstructure:"host"`
		// Port is the listen port, zero to auto-select.
		Port types.ListenPort `json:"port" mapstructure:"port"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Interactive replaces the plain menu read with a selector.
		Interactive bool `json:"interactive" mapstructure:"interactive"`
	}
)

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine
// types, and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEngineDocker, ContainerEnginePodman:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the string representation of the config RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the config RuntimeMode is one of the defined
// runtime modes, and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeContainer:
		return true, nil
	default:
		return false, []error{&InvalidConfigRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidConfigRuntimeModeError.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, container)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidConfigRuntimeModeError) Unwrap() error { return ErrInvalidConfigRuntimeMode }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color
// schemes, and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the InterpreterCommand.
func (c InterpreterCommand) String() string { return string(c) }

// IsValid returns whether the InterpreterCommand is non-blank.
func (c InterpreterCommand) IsValid() (bool, []error) {
	if strings.TrimSpace(string(c)) == "" {
		return false, []error{&InvalidInterpreterCommandError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface for InvalidInterpreterCommandError.
func (e *InvalidInterpreterCommandError) Error() string {
	return fmt.Sprintf("invalid interpreter command %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidInterpreterCommand for errors.Is() compatibility.
func (e *InvalidInterpreterCommandError) Unwrap() error { return ErrInvalidInterpreterCommand }

// String returns the string representation of the EnvDirPath.
func (p EnvDirPath) String() string { return string(p) }

// IsValid returns whether the EnvDirPath is non-blank.
func (p EnvDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidEnvDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidEnvDirPathError.
func (e *InvalidEnvDirPathError) Error() string {
	return fmt.Sprintf("invalid environment dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidEnvDirPath for errors.Is() compatibility.
func (e *InvalidEnvDirPathError) Unwrap() error { return ErrInvalidEnvDirPath }

// String returns the string representation of the ManifestPath.
func (p ManifestPath) String() string { return string(p) }

// IsValid returns whether the ManifestPath is non-blank.
func (p ManifestPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidManifestPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidManifestPathError.
func (e *InvalidManifestPathError) Error() string {
	return fmt.Sprintf("invalid manifest path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidManifestPath for errors.Is() compatibility.
func (e *InvalidManifestPathError) Unwrap() error { return ErrInvalidManifestPath }

// String returns the string representation of the ProgramPath.
func (p ProgramPath) String() string { return string(p) }

// IsValid returns whether the ProgramPath is non-blank.
func (p ProgramPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidProgramPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProgramPathError.
func (e *InvalidProgramPathError) Error() string {
	return fmt.Sprintf("invalid program path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidProgramPath for errors.Is() compatibility.
func (e *InvalidProgramPathError) Unwrap() error { return ErrInvalidProgramPath }

// String returns the string representation of the ContainerImage.
func (i ContainerImage) String() string { return string(i) }

// IsValid returns whether the ContainerImage is non-blank.
func (i ContainerImage) IsValid() (bool, []error) {
	if strings.TrimSpace(string(i)) == "" {
		return false, []error{&InvalidContainerImageError{Value: i}}
	}
	return true, nil
}

// Error implements the error interface for InvalidContainerImageError.
func (e *InvalidContainerImageError) Error() string {
	return fmt.Sprintf("invalid container image %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidContainerImage for errors.Is() compatibility.
func (e *InvalidContainerImageError) Unwrap() error { return ErrInvalidContainerImage }

// String returns the string representation of the DevicePortPath.
func (p DevicePortPath) String() string { return string(p) }

// IsValid returns whether the DevicePortPath is valid. The zero value ("")
// is valid and means "discover automatically"; non-zero values must not be
// whitespace-only.
func (p DevicePortPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDevicePortPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDevicePortPathError.
func (e *InvalidDevicePortPathError) Error() string {
	return fmt.Sprintf("invalid device port path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidDevicePortPath for errors.Is() compatibility.
func (e *InvalidDevicePortPathError) Unwrap() error { return ErrInvalidDevicePortPath }

// String returns the string representation of the JournalPath.
func (p JournalPath) String() string { return string(p) }

// IsValid returns whether the JournalPath is valid. The zero value ("") is
// valid and means "use the default data directory"; non-zero values must
// not be whitespace-only.
func (p JournalPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidJournalPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJournalPathError.
func (e *InvalidJournalPathError) Error() string {
	return fmt.Sprintf("invalid journal path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidJournalPath for errors.Is() compatibility.
func (e *InvalidJournalPathError) Unwrap() error { return ErrInvalidJournalPath }

// IsValid returns whether the EnvConfig has valid fields.
func (c EnvConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Dir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidEnvConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidEnvConfigError.
func (e *InvalidEnvConfigError) Error() string {
	return fmt.Sprintf("invalid env config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidEnvConfig for errors.Is() compatibility.
func (e *InvalidEnvConfigError) Unwrap() error { return ErrInvalidEnvConfig }

// IsValid returns whether the ProgramsConfig has valid fields.
func (c ProgramsConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Test.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Capture.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidProgramsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProgramsConfigError.
func (e *InvalidProgramsConfigError) Error() string {
	return fmt.Sprintf("invalid programs config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidProgramsConfig for errors.Is() compatibility.
func (e *InvalidProgramsConfigError) Unwrap() error { return ErrInvalidProgramsConfig }

// IsValid returns whether the ContainerConfig has valid fields.
func (c ContainerConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Engine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Image.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidContainerConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidContainerConfigError.
func (e *InvalidContainerConfigError) Error() string {
	return fmt.Sprintf("invalid container config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidContainerConfig for errors.Is() compatibility.
func (e *InvalidContainerConfigError) Unwrap() error { return ErrInvalidContainerConfig }

// IsValid returns whether the DeviceConfig has valid fields. Both fields
// are zero-valid overrides.
func (c DeviceConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Port.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := c.Baud.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDeviceConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDeviceConfigError.
func (e *InvalidDeviceConfigError) Error() string {
	return fmt.Sprintf("invalid device config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidDeviceConfig for errors.Is() compatibility.
func (e *InvalidDeviceConfigError) Unwrap() error { return ErrInvalidDeviceConfig }

// IsValid returns whether the HooksConfig has valid fields: every snippet
// must contain something to run.
func (c HooksConfig) IsValid() (bool, []error) {
	var errs []error
	for i, snippet := range c.PostSetup {
		if strings.TrimSpace(snippet) == "" {
			errs = append(errs, fmt.Errorf("post_setup[%d]: snippet must not be blank", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHooksConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHooksConfigError.
func (e *InvalidHooksConfigError) Error() string {
	return fmt.Sprintf("invalid hooks config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHooksConfig for errors.Is() compatibility.
func (e *InvalidHooksConfigError) Unwrap() error { return ErrInvalidHooksConfig }

// IsValid returns whether the JournalConfig has valid fields.
func (c JournalConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Path.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidJournalConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJournalConfigError.
func (e *InvalidJournalConfigError) Error() string {
	return fmt.Sprintf("invalid journal config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidJournalConfig for errors.Is() compatibility.
func (e *InvalidJournalConfigError) Unwrap() error { return ErrInvalidJournalConfig }

// IsValid returns whether the ServeConfig has valid fields.
func (c ServeConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host must be non-empty"))
	}
	if err := c.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid serve config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is() compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields. It delegates to
// each typed field and sub-config; bool fields need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Interpreter.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Env.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Manifest.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Programs.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Container.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Device.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Hooks.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Journal.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Serve.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Interpreter: "python3",
		Env: EnvConfig{
			Dir: "venv",
		},
		Manifest: "requirements.txt",
		Programs: ProgramsConfig{
			Test:    "gps_test.py",
			Capture: "gps_capture.py",
		},
		Runtime: RuntimeNative,
		Container: ContainerConfig{
			Engine: ContainerEngineDocker,
			Image:  "python:3.12-slim",
		},
		Device: DeviceConfig{
			Port: "", // discover automatically
			Baud: 0,  // entry programs probe
		},
		Hooks: HooksConfig{
			PostSetup: []string{},
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "", // default data directory
		},
		Serve: ServeConfig{
			Host: "127.0.0.1",
			Port: 2222,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Interactive: false,
		},
	}
}
