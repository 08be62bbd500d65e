// SPDX-License-Identifier: MPL-2.0

//go:build windows

package device

// probeAccess reports access as available on Windows. COM ports are not
// filesystem nodes; they are configured explicitly rather than discovered,
// so there is no node metadata to probe.
func probeAccess(string) Access {
	return Access{Writable: true}
}
