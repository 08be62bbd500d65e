// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the pip requirements manifest and installs it into
// the virtual environment.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPath is the manifest path used when none is configured.
const DefaultPath = "requirements.txt"

// Requirement is one entry of a requirements manifest.
type Requirement struct {
	// Name is the distribution name, e.g. "pyserial".
	Name string
	// Spec is the full requirement line, e.g. "pyserial==3.5".
	Spec string
}

// Parse reads requirement lines from r. Blank lines and comments are
// skipped, as are pip option lines ("-r", "--extra-index-url", ...), which
// name no distribution.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		// pip treats "#" as a comment only at line start or after whitespace.
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		reqs = append(reqs, Requirement{Name: extractName(line), Spec: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return reqs, nil
}

// ParseFile reads the manifest at path.
func ParseFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only file

	reqs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return reqs, nil
}

// Names returns the distribution names of reqs in manifest order.
func Names(reqs []Requirement) []string {
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = r.Name
	}
	return names
}

// extractName cuts the distribution name off a requirement spec: everything
// before the first extras bracket, version operator, environment marker,
// direct-reference "@", or whitespace.
func extractName(spec string) string {
	if i := strings.IndexAny(spec, "[=<>!~;@ \t"); i >= 0 {
		return spec[:i]
	}
	return spec
}
