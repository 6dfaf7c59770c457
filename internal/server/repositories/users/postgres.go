// Package users provides the password-check helper that lives next to the
// device registry and bootstraps the user table device owners reference.
package users

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/devicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/devicekeeper/internal/dbx"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
)

// TableName is the unqualified name of the user table.
const TableName = "user"

const columnsDDL = `email VARCHAR(50) NOT NULL PRIMARY KEY,
		password VARCHAR(100) NOT NULL,
		admin BOOLEAN NOT NULL DEFAULT FALSE`

type PostgresRepository struct {
	cm     *dbx.Manager
	schema string
	table  string
	logger logging.Logger
}

func NewPostgresRepository(cm *dbx.Manager, schema string, l logging.Logger) *PostgresRepository {
	return &PostgresRepository{
		cm:     cm,
		schema: schema,
		table:  dbx.TableName(schema, TableName),
		logger: l.With("module", "users", "schema", schema),
	}
}

// Table returns the quoted, qualified user table name.
func (r *PostgresRepository) Table() string {
	return r.table
}

func (r *PostgresRepository) Bootstrap(ctx context.Context) error {
	return r.cm.Bootstrap(ctx, r.schema, TableName, columnsDDL)
}

// CheckPassword reports whether password matches the hash stored for email.
// Lookup failures are logged and yield false.
func (r *PostgresRepository) CheckPassword(ctx context.Context, email, password string) (ok bool) {
	conn, err := r.cm.Connect(ctx)
	if err != nil {
		r.logger.Error(ctx, "password check failed", "email", email, "error", err)
		return false
	}

	var (
		stmt *sql.Stmt
		rows *sql.Rows
	)
	defer func() {
		if derr := r.cm.Disconnect(conn, stmt, rows); derr != nil {
			r.logger.Error(ctx, "password check failed", "email", email, "error", derr)
			ok = false
		}
	}()

	query := `SELECT password FROM ` + r.table + ` WHERE email = $1`
	if stmt, err = conn.PrepareContext(ctx, query); err != nil {
		r.logger.Error(ctx, "password check failed", "email", email, "error", err)
		return false
	}
	if rows, err = stmt.QueryContext(ctx, email); err != nil {
		r.logger.Error(ctx, "password check failed", "email", email, "error", err)
		return false
	}
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			r.logger.Error(ctx, "password check failed", "email", email, "error", err)
		}
		return false
	}

	var hash string
	if err = rows.Scan(&hash); err != nil {
		r.logger.Error(ctx, "password check failed", "email", email, "error", err)
		return false
	}
	return cryptox.ComparePassword(hash, password)
}
