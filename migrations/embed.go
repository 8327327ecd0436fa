// Package migrations holds the PostgreSQL schema migrations. They are
// embedded so the server, the migrate CLI and the integration tests apply
// the same files without depending on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
