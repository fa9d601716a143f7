// Package migrations embeds the goose SQL migrations for every supported
// dialect. Each dialect keeps its own directory because column types and
// key generation differ between SQLite and PostgreSQL.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/gophforum/internal/dbx"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// For returns the migration directory of dialect rooted at ".".
func For(dialect dbx.Dialect) (fs.FS, error) {
	switch dialect {
	case dbx.DialectSQLite:
		return fs.Sub(Migrations, "sqlite")
	case dbx.DialectPostgres:
		return fs.Sub(Migrations, "postgres")
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
}
