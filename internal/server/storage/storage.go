// Package storage is the persistence gateway of the forum: it opens the
// configured SQL store, applies the embedded goose migrations and exposes a
// Gateway for parameterised statements, optionally inside a transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophforum/internal/dbx"
	"github.com/dmitrijs2005/gophforum/internal/filex"
	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Storage owns the database pool.
type Storage struct {
	db      *sql.DB
	dialect dbx.Dialect
	logger  logging.Logger
	root    *Gateway
}

// New wraps an already opened database. Migrations are not applied.
func New(db *sql.DB, dialect dbx.Dialect, logger logging.Logger) *Storage {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Storage{db: db, dialect: dialect, logger: logger, root: newGateway(db, dialect)}
}

// Open connects to the store named by driver and dsn, configures it and
// migrates the schema to the latest version.
func Open(ctx context.Context, driver, dsn string, logger logging.Logger) (*Storage, error) {
	dialect, err := dbx.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	if dialect == dbx.DialectSQLite {
		if err := ensureParentDir(dsn); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if dialect == dbx.DialectSQLite {
		if err := configureSQLite(ctx, db, isMemoryDSN(dsn)); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := New(db, dialect, logger)
	if err := s.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

// configureSQLite pins the pool to a single connection: an in-memory database
// exists per connection and SQLite allows only one writer anyway.
// Per-connection pragmas live in the DSN, see sqliteDSN.
func configureSQLite(ctx context.Context, db *sql.DB, memory bool) error {
	db.SetMaxOpenConns(1)

	if memory {
		return nil
	}
	// journal mode is stored in the database file
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("sqlite journal mode: %w", err)
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqliteParams are applied by the driver to every connection it opens.
// _time_format makes time values use SQLite's own text format so that they
// sort and compare correctly in SQL.
var sqliteParams = []struct{ key, param string }{
	{"_time_format=", "_time_format=sqlite"},
	{"_pragma=foreign_keys", "_pragma=foreign_keys(1)"},
	{"_pragma=busy_timeout", "_pragma=busy_timeout(5000)"},
}

// sqliteDSN appends the connection parameters dsn does not set itself.
func sqliteDSN(dsn string) string {
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.param
	}
	return dsn
}

func ensureParentDir(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}

// gooseUp is a seam for testing goose.UpContext.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// goose keeps its dialect and base FS in package globals.
var migrateMu sync.Mutex

func gooseDialect(d dbx.Dialect) string {
	if d == dbx.DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

// RunMigrations applies all pending embedded migrations for the dialect.
func (s *Storage) RunMigrations(ctx context.Context) error {
	fsys, err := migrations.For(s.dialect)
	if err != nil {
		return err
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(&gooseLogger{ctx: ctx, logger: s.logger})
	if err := goose.SetDialect(gooseDialect(s.dialect)); err != nil {
		return err
	}

	return gooseUp(ctx, s.db, ".")
}

// MigrationStatus lists the embedded migrations and whether each is applied.
func (s *Storage) MigrationStatus(ctx context.Context) ([]MigrationState, error) {
	fsys, err := migrations.For(s.dialect)
	if err != nil {
		return nil, err
	}
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := goose.SetDialect(gooseDialect(s.dialect)); err != nil {
		return nil, err
	}
	current, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	states := make([]MigrationState, 0, len(names))
	for _, name := range names {
		version, err := goose.NumericComponent(name)
		if err != nil {
			return nil, err
		}
		states = append(states, MigrationState{Name: name, Version: version, Applied: version <= current})
	}
	return states, nil
}

// MigrationState describes one embedded migration.
type MigrationState struct {
	Name    string
	Version int64
	Applied bool
}

// Dialect returns the SQL dialect of the store.
func (s *Storage) Dialect() dbx.Dialect {
	return s.dialect
}

// Gateway returns the gateway bound to the pool.
func (s *Storage) Gateway() *Gateway {
	return s.root
}

// WithTx runs fn with a gateway bound to a new transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (s *Storage) WithTx(ctx context.Context, fn func(ctx context.Context, g *Gateway) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newGateway(tx, s.dialect))
	})
}

// Close releases the pool.
func (s *Storage) Close() error {
	return s.db.Close()
}

type gooseLogger struct {
	ctx    context.Context
	logger logging.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}
