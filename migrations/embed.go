// Package migrations embeds the SQL migration files so the goose
// programmatic API can run them at server bootstrap without relying on a
// filesystem path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
