package migrations

import "embed"

// FS contains embedded SQLite migrations for meet storage.
//
//go:embed *.sql
var FS embed.FS
