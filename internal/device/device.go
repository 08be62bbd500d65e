// SPDX-License-Identifier: MPL-2.0

// Package device discovers candidate GPS receiver ports.
//
// Discovery is metadata-only: candidate paths are collected from per-OS glob
// patterns, tagged with a known receiver profile when the path matches one,
// and checked for access permission from stat information. The port itself
// is never opened; talking NMEA to the receiver is the entry programs' job.
package device

import (
	_ "embed"
	"fmt"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/gpskit/gpskit/pkg/platform"
	"github.com/gpskit/gpskit/pkg/types"
)

//go:embed profiles.yaml
var profilesRaw []byte

// Profile describes a known USB GPS receiver family.
type Profile struct {
	// Name is the human-readable receiver name.
	Name string `yaml:"name"`
	// Match lists lowercase substrings that identify the receiver in a
	// port path (by-id symlinks carry the USB vendor/product strings).
	Match []string `yaml:"match"`
	// Baud is the receiver's default line rate.
	Baud types.BaudRate `yaml:"baud"`
}

type profilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

var builtinProfiles = mustLoadProfiles()

func mustLoadProfiles() []Profile {
	var pf profilesFile
	if err := yaml.Unmarshal(profilesRaw, &pf); err != nil {
		panic(fmt.Sprintf("device: parse embedded profiles: %v", err))
	}
	for i, p := range pf.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			panic(fmt.Sprintf("device: embedded profile %d has no name", i))
		}
		if len(p.Match) == 0 {
			panic(fmt.Sprintf("device: embedded profile %q has no match tags", p.Name))
		}
		if err := p.Baud.Validate(); err != nil {
			panic(fmt.Sprintf("device: embedded profile %q: %v", p.Name, err))
		}
	}
	return pf.Profiles
}

// Profiles returns a copy of the built-in receiver profiles.
func Profiles() []Profile {
	out := make([]Profile, len(builtinProfiles))
	copy(out, builtinProfiles)
	return out
}

// Candidate is one discovered port.
type Candidate struct {
	// Path is the port path as matched, preferring the stable by-id name
	// over the raw device node when both exist.
	Path string
	// Profile is the matching receiver profile, or nil when the path
	// matches no known receiver.
	Profile *Profile
	// Access reports whether the current user can use the port.
	Access Access
}

// Access is the result of the metadata-only permission probe.
type Access struct {
	// Writable reports whether the current user can read and write the
	// device node, judged from ownership and mode bits alone.
	Writable bool
	// Group is the owning group of the device node, when resolvable.
	Group string
	// Hint suggests a fix when Writable is false.
	Hint string
}

// portPatterns returns the glob patterns for candidate ports on this OS.
// By-id patterns come first so stable names win deduplication. Windows has
// no enumerable port namespace here; COM ports are configured explicitly.
func portPatterns() []string {
	switch goruntime.GOOS {
	case platform.Windows:
		return nil
	case platform.Darwin:
		return []string{
			"/dev/tty.SLAB_USBtoUART*",
			"/dev/tty.usbserial*",
		}
	default:
		return []string{
			"/dev/serial/by-id/*",
			"/dev/ttyACM*",
			"/dev/ttyUSB*",
		}
	}
}

// Discover lists candidate GPS ports, newest profile knowledge applied.
// Paths resolving to the same device node are listed once. Bluetooth
// endpoints are skipped; they enumerate as serial ports on both Linux and
// macOS but are never a USB GPS receiver.
func Discover() ([]Candidate, error) {
	seen := make(map[string]bool)
	var candidates []Candidate

	for _, pattern := range portPatterns() {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob ports %q: %w", pattern, err)
		}
		for _, path := range matches {
			if isBluetoothPort(path) {
				continue
			}

			resolved := path
			if r, err := filepath.EvalSymlinks(path); err == nil {
				resolved = r
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true

			c := Candidate{Path: path, Access: probeAccess(resolved)}
			if p, ok := matchProfile(path); ok {
				c.Profile = &p
			}
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// matchProfile returns the first built-in profile whose match tags appear in
// the lowercased path.
func matchProfile(path string) (Profile, bool) {
	lower := strings.ToLower(path)
	for _, p := range builtinProfiles {
		for _, tag := range p.Match {
			if strings.Contains(lower, tag) {
				return p, true
			}
		}
	}
	return Profile{}, false
}

func isBluetoothPort(path string) bool {
	lower := strings.ToLower(filepath.Base(path))
	return strings.Contains(lower, "bluetooth") || strings.HasPrefix(lower, "rfcomm")
}
