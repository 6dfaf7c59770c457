package repomanager

import (
	"context"

	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/devices"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory.
type MemoryRepositoryManager struct {
	devices *devices.MemoryRepository
	users   *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		devices: devices.NewMemoryRepository(),
		users:   users.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Bootstrap(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error      { return nil }
func (m *MemoryRepositoryManager) Devices() devices.Repository     { return m.devices }
func (m *MemoryRepositoryManager) Users() users.Repository         { return m.users }
func (m *MemoryRepositoryManager) Close() error                    { return nil }
