// Package migrations embeds the schema migrations for both storage
// backends so the binary can migrate itself on startup.
package migrations

import "embed"

//go:embed pgsql/*.sql sqlite/*.sql
var FS embed.FS
