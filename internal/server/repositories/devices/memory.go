package devices

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
)

// MemoryRepository keeps devices in process memory. It honors the same
// contract as PostgresRepository except that owners are not checked
// against any user table.
type MemoryRepository struct {
	mu      sync.RWMutex
	devices map[string]models.Device
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{devices: make(map[string]models.Device)}
}

func (r *MemoryRepository) Bootstrap(context.Context) error {
	return nil
}

func (r *MemoryRepository) ListDevices(ctx context.Context) ([]*models.Device, error) {
	return r.ListDevicesByOwner(ctx, "")
}

func (r *MemoryRepository) ListDevicesByOwner(_ context.Context, owner string) ([]*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Device{}
	for _, d := range r.devices {
		if owner != "" && d.UserAssociated != owner {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) AddDevice(_ context.Context, device *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[device.Name]; ok {
		return nil
	}
	r.devices[device.Name] = *device
	return nil
}

func (r *MemoryRepository) EditDevice(_ context.Context, device *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[device.Name]; !ok {
		return nil
	}
	r.devices[device.Name] = *device
	return nil
}

func (r *MemoryRepository) GetDevice(_ context.Context, name string) (*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) RemoveDevice(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.devices, name)
	return nil
}

func (r *MemoryRepository) GetEncryptionKey(_ context.Context, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.devices[name].EncryptionKey, nil
}
