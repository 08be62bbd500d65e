// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum CUE file size accepted by ParseAndDecode
// unless overridden with WithMaxFileSize. Hand-written configuration files
// are tiny; anything past this limit is either generated or hostile.
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

// options holds the configurable knobs of a parse operation.
type options struct {
	filename    string
	maxFileSize int64
	concrete    bool
}

// Option configures a ParseAndDecode call.
type Option func(*options)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithFilename sets the filename reported in error messages. Defaults to
// "<input>" when unset.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithConcrete requires all values to be concrete during validation.
// Leave unset for schemas with optional fields that defaults fill later.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// WithMaxFileSize overrides the maximum accepted input size in bytes.
func WithMaxFileSize(limit int64) Option {
	return func(o *options) { o.maxFileSize = limit }
}
