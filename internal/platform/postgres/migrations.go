package postgres

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded schema migrations. The returned
// filesystem is rooted at the package directory, so goose should be pointed
// at the "migrations" subdirectory.
func MigrationsFS() fs.FS {
	return migrationsFS
}
