// SPDX-License-Identifier: MPL-2.0

// gpskit bootstraps a Python workspace for USB GPS receiver tools and
// launches them from a small menu.
package main

import (
	cmd "github.com/gpskit/gpskit/cmd/gpskit"
)

func main() {
	cmd.Execute()
}
