package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/devicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
)

// MemoryRepository holds users keyed by email.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Bootstrap(context.Context) error {
	return nil
}

// Put stores u, replacing any user with the same email.
func (r *MemoryRepository) Put(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Email] = u
}

// SetPasswordHash stores hash for a non-admin user with the given email.
func (r *MemoryRepository) SetPasswordHash(email, hash string) {
	r.Put(models.User{Email: email, PasswordHash: hash})
}

func (r *MemoryRepository) CheckPassword(_ context.Context, email, password string) bool {
	r.mu.RLock()
	u, ok := r.users[email]
	r.mu.RUnlock()

	return ok && cryptox.ComparePassword(u.PasswordHash, password)
}
