// Package migrations holds the schema for the postgres session storage.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
