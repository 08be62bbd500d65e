// SPDX-License-Identifier: MPL-2.0

// Package migrations embeds the SQL migrations for the session journal.
package migrations

import "embed"

// FS contains the embedded journal migrations, applied in name order.
//
//go:embed *.sql
var FS embed.FS
