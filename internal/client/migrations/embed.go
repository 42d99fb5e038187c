// Package migrations embeds the local history schema executed by goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
