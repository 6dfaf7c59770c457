// Package devices is the device registry: the persistence of registered
// agents, their addresses, owners and per-device encryption keys.
package devices

import (
	"context"

	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
)

// Repository is implemented by PostgresRepository and MemoryRepository.
//
// Every call is one independent statement. Writes report success with a nil
// error; AddDevice on an existing name, EditDevice and RemoveDevice on an
// unknown name are successful no-ops.
type Repository interface {
	Bootstrap(ctx context.Context) error
	ListDevices(ctx context.Context) ([]*models.Device, error)
	ListDevicesByOwner(ctx context.Context, owner string) ([]*models.Device, error)
	AddDevice(ctx context.Context, device *models.Device) error
	EditDevice(ctx context.Context, device *models.Device) error
	GetDevice(ctx context.Context, name string) (*models.Device, error)
	RemoveDevice(ctx context.Context, name string) error
	GetEncryptionKey(ctx context.Context, name string) (string, error)
}
