// Package migrations embeds the goose SQL migrations of the post store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
