// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is a single CUE validation failure located by file and
// JSON-style path, e.g. "config.cue: device.baud: expected int, got string".
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// CUEPath locates the invalid value (e.g., "hooks.post_setup[0]");
	// empty when the failure has no field position.
	CUEPath string

	// Message is the underlying validation message.
	Message string
}

func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// FormatError converts a CUE error into user-facing form. A single failure
// becomes a *ValidationError; multiple failures are joined into one message
// with indented lines. Non-CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	if len(cueErrors) == 1 {
		pathStr, msg := splitPathMessage(cueErrors[0])
		return &ValidationError{FilePath: filePath, CUEPath: pathStr, Message: msg}
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr, msg := splitPathMessage(e)
		if pathStr != "" {
			lines = append(lines, pathStr+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// splitPathMessage extracts the field path and the message from one CUE
// error, stripping the path prefix CUE sometimes repeats in the message.
func splitPathMessage(e errors.Error) (pathStr, msg string) {
	pathStr = formatPath(errors.Path(e))
	msg = e.Error()
	if pathStr != "" && strings.HasPrefix(msg, pathStr) {
		msg = strings.TrimPrefix(msg, pathStr)
		msg = strings.TrimPrefix(msg, ":")
		msg = strings.TrimSpace(msg)
	}
	return pathStr, msg
}

// formatPath renders CUE's flat path slice in JSON-path notation: numeric
// segments become bracketed indices ("hooks", "post_setup", "0" turns into
// "hooks.post_setup[0]").
func formatPath(path []string) string {
	var out strings.Builder
	for i, part := range path {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			out.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			out.WriteString(".")
		}
		out.WriteString(part)
	}
	return out.String()
}

// CheckFileSize rejects data larger than maxSize before it reaches the CUE
// evaluator.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
