package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/dmitrijs2005/devicekeeper/internal/dbx"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
)

// TableName is the unqualified name of the device table.
const TableName = "device"

// Config locates the device table. It is fixed for the repository lifetime.
type Config struct {
	// Schema holds the device table.
	Schema string
	// UsersTable is the quoted, qualified table whose email column
	// userAssociated references.
	UsersTable string
}

type queries struct {
	selectAll     string
	selectByOwner string
	selectByName  string
	selectKey     string
	insert        string
	update        string
	delete        string
}

func buildQueries(table string) queries {
	const columns = `name, ip, serverPort, lastConnection, encryptionKey, userAssociated`
	return queries{
		selectAll:     `SELECT ` + columns + ` FROM ` + table + ` ORDER BY name`,
		selectByOwner: `SELECT ` + columns + ` FROM ` + table + ` WHERE userAssociated = $1 ORDER BY name`,
		selectByName:  `SELECT ` + columns + ` FROM ` + table + ` WHERE name = $1`,
		selectKey:     `SELECT encryptionKey FROM ` + table + ` WHERE name = $1`,
		insert: `INSERT INTO ` + table + ` (` + columns + `)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO NOTHING`,
		update: `UPDATE ` + table + `
		 SET ip = $1, serverPort = $2, lastConnection = $3, encryptionKey = $4, userAssociated = $5
		 WHERE name = $6`,
		delete: `DELETE FROM ` + table + ` WHERE name = $1`,
	}
}

// columnsDDL is the column list of the device table.
func columnsDDL(usersTable string) string {
	return `name VARCHAR(50) NOT NULL PRIMARY KEY,
		ip VARCHAR(25) NOT NULL,
		serverPort VARCHAR(10),
		lastConnection VARCHAR(25),
		encryptionKey VARCHAR(32),
		userAssociated VARCHAR(50) REFERENCES ` + usersTable + `(email)`
}

// PostgresRepository stores devices in PostgreSQL. Each call opens its own
// connection through the dbx.Manager and releases everything before
// returning.
type PostgresRepository struct {
	cm     *dbx.Manager
	cfg    Config
	q      queries
	logger logging.Logger
}

// NewPostgresRepository constructs a repository bound to the given manager.
func NewPostgresRepository(cm *dbx.Manager, cfg Config, l logging.Logger) *PostgresRepository {
	return &PostgresRepository{
		cm:     cm,
		cfg:    cfg,
		q:      buildQueries(dbx.TableName(cfg.Schema, TableName)),
		logger: l.With("module", "device_registry", "schema", cfg.Schema),
	}
}

// Bootstrap creates the device schema and table when they do not exist.
// The users table must already be there.
func (r *PostgresRepository) Bootstrap(ctx context.Context) error {
	if err := r.cm.Bootstrap(ctx, r.cfg.Schema, TableName, columnsDDL(r.cfg.UsersTable)); err != nil {
		return err
	}
	r.logger.Info(ctx, "device table ready")
	return nil
}

// ListDevices returns every device ordered by name.
func (r *PostgresRepository) ListDevices(ctx context.Context) ([]*models.Device, error) {
	return r.ListDevicesByOwner(ctx, "")
}

// ListDevicesByOwner returns the devices whose owner is owner, or every
// device when owner is empty. The result is never nil.
func (r *PostgresRepository) ListDevicesByOwner(ctx context.Context, owner string) (devices []*models.Device, err error) {
	conn, err := r.cm.Connect(ctx)
	if err != nil {
		return nil, err
	}

	var (
		stmt *sql.Stmt
		rows *sql.Rows
	)
	defer func() {
		if derr := r.cm.Disconnect(conn, stmt, rows); derr != nil {
			devices, err = nil, errors.Join(err, derr)
		}
	}()

	query, args := r.q.selectAll, []any{}
	if owner != "" {
		query, args = r.q.selectByOwner, []any{owner}
	}

	if stmt, err = conn.PrepareContext(ctx, query); err != nil {
		return nil, persistence(err)
	}
	if rows, err = stmt.QueryContext(ctx, args...); err != nil {
		return nil, persistence(err)
	}

	devices = []*models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, persistence(err)
		}
		devices = append(devices, d)
	}
	if err = rows.Err(); err != nil {
		return nil, persistence(err)
	}

	return devices, nil
}

// AddDevice inserts device. A row with the same name is left untouched.
func (r *PostgresRepository) AddDevice(ctx context.Context, device *models.Device) error {
	err := r.exec(ctx, r.q.insert,
		device.Name,
		device.IP,
		common.NullableString(device.ServerPort),
		common.NullableString(device.LastConnection),
		common.NullableString(device.EncryptionKey),
		common.NullableString(device.UserAssociated),
	)
	if err != nil {
		return err
	}
	r.logger.Debug(ctx, "device added", "name", device.Name)
	return nil
}

// EditDevice overwrites every field except the name of the row matching
// device.Name. No matching row is not an error.
func (r *PostgresRepository) EditDevice(ctx context.Context, device *models.Device) error {
	err := r.exec(ctx, r.q.update,
		device.IP,
		common.NullableString(device.ServerPort),
		common.NullableString(device.LastConnection),
		common.NullableString(device.EncryptionKey),
		common.NullableString(device.UserAssociated),
		device.Name,
	)
	if err != nil {
		return err
	}
	r.logger.Debug(ctx, "device edited", "name", device.Name)
	return nil
}

// GetDevice returns the device called name or common.ErrorNotFound.
//
// A statement that fails is logged and reported as common.ErrorNotFound too,
// so callers cannot tell a missing row from a failed lookup. Failing to
// connect or to release is still returned as common.ErrConnection.
func (r *PostgresRepository) GetDevice(ctx context.Context, name string) (device *models.Device, err error) {
	conn, err := r.cm.Connect(ctx)
	if err != nil {
		return nil, err
	}

	var (
		stmt *sql.Stmt
		rows *sql.Rows
	)
	defer func() {
		if derr := r.cm.Disconnect(conn, stmt, rows); derr != nil {
			device, err = nil, errors.Join(err, derr)
		}
	}()

	if stmt, err = conn.PrepareContext(ctx, r.q.selectByName); err != nil {
		return r.lookupFailed(ctx, name, err)
	}
	if rows, err = stmt.QueryContext(ctx, name); err != nil {
		return r.lookupFailed(ctx, name, err)
	}
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return r.lookupFailed(ctx, name, err)
		}
		return nil, common.ErrorNotFound
	}
	if device, err = scanDevice(rows); err != nil {
		return r.lookupFailed(ctx, name, err)
	}

	return device, nil
}

func (r *PostgresRepository) lookupFailed(ctx context.Context, name string, err error) (*models.Device, error) {
	r.logger.Error(ctx, "device lookup failed", "name", name, "error", err)
	return nil, common.ErrorNotFound
}

// RemoveDevice deletes the device called name. No matching row is not an
// error.
func (r *PostgresRepository) RemoveDevice(ctx context.Context, name string) error {
	if err := r.exec(ctx, r.q.delete, name); err != nil {
		return err
	}
	r.logger.Debug(ctx, "device removed", "name", name)
	return nil
}

// GetEncryptionKey returns the key of the device called name. An unknown
// device or a device without a key yields the empty string.
func (r *PostgresRepository) GetEncryptionKey(ctx context.Context, name string) (key string, err error) {
	conn, err := r.cm.Connect(ctx)
	if err != nil {
		return "", err
	}

	var (
		stmt *sql.Stmt
		rows *sql.Rows
	)
	defer func() {
		if derr := r.cm.Disconnect(conn, stmt, rows); derr != nil {
			key, err = "", errors.Join(err, derr)
		}
	}()

	if stmt, err = conn.PrepareContext(ctx, r.q.selectKey); err != nil {
		return "", persistence(err)
	}
	if rows, err = stmt.QueryContext(ctx, name); err != nil {
		return "", persistence(err)
	}
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return "", persistence(err)
		}
		return "", nil
	}

	var k sql.NullString
	if err = rows.Scan(&k); err != nil {
		return "", persistence(err)
	}
	return k.String, nil
}

// exec runs one statement that returns no rows.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (err error) {
	conn, err := r.cm.Connect(ctx)
	if err != nil {
		return err
	}

	var stmt *sql.Stmt
	defer func() {
		err = errors.Join(err, r.cm.Disconnect(conn, stmt, nil))
	}()

	if stmt, err = conn.PrepareContext(ctx, query); err != nil {
		return persistence(err)
	}
	if _, err = stmt.ExecContext(ctx, args...); err != nil {
		return persistence(err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(s scanner) (*models.Device, error) {
	var d models.Device
	var port, last, key, owner sql.NullString
	if err := s.Scan(&d.Name, &d.IP, &port, &last, &key, &owner); err != nil {
		return nil, err
	}
	d.ServerPort = port.String
	d.LastConnection = last.String
	d.EncryptionKey = key.String
	d.UserAssociated = owner.String
	return &d, nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", common.ErrPersistence, err)
}
