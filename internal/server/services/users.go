package services

import (
	"context"

	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/repomanager"
)

// UserService answers credential checks for device owners.
type UserService struct {
	repomanager repomanager.RepositoryManager
}

func NewUserService(m repomanager.RepositoryManager) *UserService {
	return &UserService{repomanager: m}
}

// CheckPassword reports whether password belongs to email. An empty
// password never matches.
func (s *UserService) CheckPassword(ctx context.Context, email, password string) bool {
	if email == "" || password == "" {
		return false
	}
	return s.repomanager.Users().CheckPassword(ctx, email, password)
}
