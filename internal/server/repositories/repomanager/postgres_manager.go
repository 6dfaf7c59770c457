// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and process memory, wiring the repositories to one connection
// manager and running their schema bootstrap in dependency order.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/devicekeeper/internal/dbx"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/devices"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/users"
)

// Config names the schemas holding the device and user tables.
type Config struct {
	DeviceSchema string
	AuthSchema   string
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one
// dbx.Manager.
type PostgresRepositoryManager struct {
	cm      *dbx.Manager
	devices *devices.PostgresRepository
	users   *users.PostgresRepository
	logger  logging.Logger
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(cm *dbx.Manager, cfg Config, l logging.Logger) *PostgresRepositoryManager {
	u := users.NewPostgresRepository(cm, cfg.AuthSchema, l)
	d := devices.NewPostgresRepository(cm, devices.Config{
		Schema:     cfg.DeviceSchema,
		UsersTable: u.Table(),
	}, l)

	return &PostgresRepositoryManager{
		cm:      cm,
		devices: d,
		users:   u,
		logger:  l.With("module", "repomanager"),
	}
}

// Bootstrap creates the user table first because device rows reference it.
func (m *PostgresRepositoryManager) Bootstrap(ctx context.Context) error {
	if err := m.users.Bootstrap(ctx); err != nil {
		return err
	}
	if err := m.devices.Bootstrap(ctx); err != nil {
		return err
	}
	m.logger.Info(ctx, "schema bootstrap complete")
	return nil
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.cm.Ping(ctx)
}

// Devices returns the device registry.
func (m *PostgresRepositoryManager) Devices() devices.Repository {
	return m.devices
}

// Users returns the password-check helper.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Close() error {
	return m.cm.Close()
}
