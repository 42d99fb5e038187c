// Package migrations embeds the server schema migrations executed by goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
