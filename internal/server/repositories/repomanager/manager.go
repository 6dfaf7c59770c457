package repomanager

import (
	"context"

	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/devices"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	// Bootstrap prepares every table; it is safe to run on each start.
	Bootstrap(context.Context) error
	// Ping reports whether the backing store is reachable.
	Ping(context.Context) error
	Devices() devices.Repository
	Users() users.Repository
	Close() error
}
