// Package migrations embeds the goose SQL migrations for the account schema.
package migrations

import "embed"

// FS holds every *.sql migration. Pass "." as the goose directory.
//
//go:embed *.sql
var FS embed.FS
