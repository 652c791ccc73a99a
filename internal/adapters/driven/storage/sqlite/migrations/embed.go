// Package migrations holds the numbered SQL files that build the docaudit schema.
// Files are named NNN_name.up.sql and NNN_name.down.sql and run in name order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
