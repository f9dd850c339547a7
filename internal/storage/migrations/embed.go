// Package migrations carries the embedded SQL schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
