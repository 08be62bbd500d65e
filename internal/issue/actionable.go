// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError carries the context a user needs to act on a failure:
	// the operation that failed, the resource involved, and concrete
	// suggestions. Build instances through ErrorContext:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("create virtual environment").
	//		WithResource(".venv").
	//		WithSuggestion("Install the python3-venv package").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is the verb phrase that failed, e.g. "check interpreter"
		// or "install dependencies".
		Operation string

		// Resource names the file, device, or entity involved, if any.
		Resource string

		// Suggestions are fix hints rendered as a bulleted list.
		Suggestions []string

		// Cause is the wrapped underlying error, if any.
		Cause error
	}

	// ErrorContext accumulates error context fluently. A context may be
	// prepared ahead of the fallible call and finished at the failure site:
	//
	//	ctx := issue.NewErrorContext().
	//		WithOperation("load config").
	//		WithResource(path)
	//	...
	//	return ctx.Wrap(err).BuildError()
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// AsActionable unwraps err looking for an ActionableError anywhere in the
// chain. It follows errors.As semantics, so joined and wrapped errors are
// searched too.
func AsActionable(err error) (*ActionableError, bool) {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Error returns the one-line form: "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := make([]string, 0, 3)
	parts = append(parts, "failed to "+e.Operation)
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal display. The plain form is the
// one-line message followed by bulleted suggestions; verbose adds the
// numbered cause chain underneath.
func (e *ActionableError) Format(verbose bool) string {
	var out strings.Builder
	out.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		out.WriteString("\n")
		for _, s := range e.Suggestions {
			out.WriteString("\n  • ")
			out.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		out.WriteString("\n\nError chain:")
		depth := 1
		for cause := e.Cause; cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(&out, "\n  %d. %s", depth, cause.Error())
			depth++
		}
	}

	return out.String()
}

// WithOperation sets the failed operation. Required for Build.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one fix hint.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions appends several fix hints at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build materializes the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returning the error interface, for use directly in
// return statements. A nil *ActionableError must not escape as a non-nil
// error, so the nil case is returned as a plain nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
