package migrations

import (
	"io/fs"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_SameVersionsPerDialect(t *testing.T) {
	list := func(d dbx.Dialect) []string {
		fsys, err := For(d)
		require.NoError(t, err)
		names, err := fs.Glob(fsys, "*.sql")
		require.NoError(t, err)
		return names
	}

	sqlite := list(dbx.DialectSQLite)
	postgres := list(dbx.DialectPostgres)

	assert.NotEmpty(t, sqlite)
	assert.Equal(t, sqlite, postgres)
}

func TestFor_UnknownDialect(t *testing.T) {
	_, err := For(dbx.Dialect("oracle"))
	assert.Error(t, err)
}
