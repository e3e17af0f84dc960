// Package migrations embeds the schema migration files so the binaries
// carry their schema and need no migrations directory at runtime.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
