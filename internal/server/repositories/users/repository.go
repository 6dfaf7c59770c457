package users

import "context"

// Repository exposes the part of the user store the device layer needs.
type Repository interface {
	Bootstrap(ctx context.Context) error
	CheckPassword(ctx context.Context, email, password string) bool
}
