// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into guidance. It pairs typed errors that
// carry remediation steps with a catalog of Markdown cards describing the
// problems an operator is likely to hit, from a missing interpreter to a
// receiver the current user cannot open.
package issue
