// Package dbx provides the connection manager shared by repositories.
// Every repository call acquires its own connection, prepared statement and
// result cursor through a Manager and hands all three back to Disconnect on
// every exit path.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Manager mediates access to the backing store.
// It is safe for concurrent use; no handle is ever shared between calls.
type Manager struct {
	db *sql.DB
}

// Open prepares a Manager for the PostgreSQL DSN. Idle connections are not
// retained, so every released connection is physically closed.
// No connection is made until the first Connect.
func Open(dsn string) (*Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConnection, err)
	}
	db.SetMaxIdleConns(0)
	return NewManager(db), nil
}

// NewManager wraps an already opened handle.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Connect acquires a dedicated connection. The caller must release it with
// Disconnect.
func (m *Manager) Connect(ctx context.Context) (*sql.Conn, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConnection, err)
	}
	return conn, nil
}

// Disconnect releases the cursor, the statement and the connection, in that
// order. Nil handles are skipped. All releases are attempted even when one
// fails; the failures are then reported together as common.ErrConnection.
func (m *Manager) Disconnect(conn *sql.Conn, stmt *sql.Stmt, rows *sql.Rows) error {
	var errs []error

	if rows != nil {
		if err := rows.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing result cursor: %w", err))
		}
	}
	if stmt != nil {
		if err := stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing statement: %w", err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing connection: %w", err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrConnection, errors.Join(errs...))
}

// Exec runs a single statement that returns no rows on its own connection.
// Statement errors are returned unwrapped so callers can classify them.
func (m *Manager) Exec(ctx context.Context, query string, args ...any) (err error) {
	conn, err := m.Connect(ctx)
	if err != nil {
		return err
	}

	var stmt *sql.Stmt
	defer func() {
		err = errors.Join(err, m.Disconnect(conn, stmt, nil))
	}()

	stmt, err = conn.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, args...)
	return err
}

// Ping opens and releases one connection.
func (m *Manager) Ping(ctx context.Context) (err error) {
	conn, err := m.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, m.Disconnect(conn, nil, nil))
	}()

	if err = conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConnection, err)
	}
	return nil
}

// Close closes the underlying handle.
func (m *Manager) Close() error {
	return m.db.Close()
}
