package dbx

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes reported when the object being created is already there.
const (
	codeDuplicateSchema = "42P06"
	codeDuplicateTable  = "42P07"
)

// TableName returns the quoted, schema qualified name of a table.
func TableName(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

// Bootstrap creates schema and then schema.table with the given column
// definitions. Either object already existing is not an error; any other
// failure is reported as common.ErrSchemaInit.
func (m *Manager) Bootstrap(ctx context.Context, schema, table, columns string) error {
	createSchema := "CREATE SCHEMA " + pgx.Identifier{schema}.Sanitize()
	if err := m.Exec(ctx, createSchema); err != nil && !tolerable(err) {
		return fmt.Errorf("%w: creating schema %s: %w", common.ErrSchemaInit, schema, err)
	}

	createTable := "CREATE TABLE " + TableName(schema, table) + " (" + columns + ")"
	if err := m.Exec(ctx, createTable); err != nil && !tolerable(err) {
		return fmt.Errorf("%w: creating table %s.%s: %w", common.ErrSchemaInit, schema, table, err)
	}

	return nil
}

// tolerable reports whether a bootstrap statement failed only because its
// object exists. A failed release still counts as a failure.
func tolerable(err error) bool {
	return isAlreadyExists(err) && !errors.Is(err, common.ErrConnection)
}

func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeDuplicateSchema || pgErr.Code == codeDuplicateTable
}
