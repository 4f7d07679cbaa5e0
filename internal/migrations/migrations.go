// Package migrations embeds the goose SQL migrations for the "user" and
// account tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
