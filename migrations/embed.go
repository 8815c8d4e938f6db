// Package migrations embeds the SQL schema migrations so compiled binaries
// never depend on an on-disk migrations directory.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
