// Package migrations holds the goose SQL migrations for the recipes store.
// The server (AUTO_MIGRATE), the mealmate CLI and the integration tests all
// apply them from FS, so no migration files are needed on disk at runtime.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
