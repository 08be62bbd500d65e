// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the shared CUE plumbing: ParseAndDecode runs the
// compile-unify-validate-decode pipeline against an embedded schema, and
// FormatError turns CUE's error lists into messages that carry the file
// path and the JSON-style field position. The config package builds its
// loading on both.
package cueutil
