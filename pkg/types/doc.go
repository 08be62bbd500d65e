// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the launcher,
// config, and runtime packages: exit codes, menu choices, baud rates,
// filesystem paths, and listen ports. Each type carries its own validation
// and a structured error that wraps a package-level sentinel, so callers can
// use errors.Is for programmatic detection and errors.As for details.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types
