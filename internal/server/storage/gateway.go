package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/dbx"
)

// ErrConstraintViolation is wrapped around driver errors caused by a failed
// UNIQUE, FOREIGN KEY or CHECK constraint.
var ErrConstraintViolation = errors.New("constraint violation")

// Gateway executes parameterised statements against one database handle,
// either the pool or a transaction. Statements use '?' placeholders and are
// rebound for the dialect.
type Gateway struct {
	conn    dbx.DBTX
	dialect dbx.Dialect

	// mu guards lastID and keeps an insert and its id read together.
	mu     sync.Mutex
	lastID int64
}

func newGateway(conn dbx.DBTX, dialect dbx.Dialect) *Gateway {
	return &Gateway{conn: conn, dialect: dialect}
}

// Dialect returns the SQL dialect spoken by the underlying store.
func (g *Gateway) Dialect() dbx.Dialect {
	return g.dialect
}

// Execute runs a data-modifying statement and returns the number of affected rows.
func (g *Gateway) Execute(ctx context.Context, statement string, args ...any) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	affected, _, err := g.exec(ctx, statement, args)
	return affected, err
}

// Insert runs an INSERT and returns the id of the new row. It returns 0 when
// the statement inserted nothing, e.g. on ON CONFLICT DO NOTHING.
func (g *Gateway) Insert(ctx context.Context, statement string, args ...any) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, id, err := g.exec(ctx, statement, args)
	return id, err
}

// LastInsertID returns the id generated by the most recent insert made
// through this gateway.
func (g *Gateway) LastInsertID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastID
}

func (g *Gateway) exec(ctx context.Context, statement string, args []any) (int64, int64, error) {
	insert := isInsert(statement)

	if insert && !g.dialect.SupportsLastInsertID() {
		query := g.dialect.Rebind(strings.TrimRight(statement, "; \t\r\n")) + " RETURNING id"

		var id int64
		err := g.conn.QueryRowContext(ctx, query, args...).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, nil
		}
		if err != nil {
			return 0, 0, wrapError(err)
		}
		g.lastID = id
		return 1, id, nil
	}

	res, err := g.conn.ExecContext(ctx, g.dialect.Rebind(statement), args...)
	if err != nil {
		return 0, 0, wrapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	if !insert || affected == 0 {
		return affected, 0, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	g.lastID = id

	return affected, id, nil
}

// Query runs a row-returning statement and returns all rows in order.
func (g *Gateway) Query(ctx context.Context, statement string, args ...any) ([]Record, error) {
	rows, err := g.conn.QueryContext(ctx, g.dialect.Rebind(statement), args...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	records := make([]Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		rec := make(Record, len(columns))
		for i, col := range columns {
			// drivers may reuse byte buffers between rows
			if b, ok := values[i].([]byte); ok {
				values[i] = append([]byte(nil), b...)
			}
			rec[col] = values[i]
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}

// QueryOne runs a statement expected to produce exactly one row. It returns
// common.ErrorNotFound for no rows and common.ErrorMultipleRows for more.
func (g *Gateway) QueryOne(ctx context.Context, statement string, args ...any) (Record, error) {
	records, err := g.Query(ctx, statement, args...)
	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, common.ErrorNotFound
	case 1:
		return records[0], nil
	default:
		return nil, common.ErrorMultipleRows
	}
}

func isInsert(statement string) bool {
	s := strings.TrimSpace(statement)
	return len(s) >= 6 && strings.EqualFold(s[:6], "INSERT")
}

func wrapError(err error) error {
	if dbx.IsConstraintViolation(err) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return fmt.Errorf("db error: %w", err)
}
