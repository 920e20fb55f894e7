// Package migrations embeds the SQL migration files for the bot's sqlite schema.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
