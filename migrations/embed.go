// Package migrations embeds the SQL migration files so the API server can
// apply them at startup and integration tests can apply them in TestMain.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass it to goose.NewProvider instead of relying on a filesystem path.
//
//go:embed *.sql
var FS embed.FS
