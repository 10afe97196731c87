package user

import "context"

// Repository is the narrow lookup surface the portal needs. Account
// management CRUD is owned by the admin service and out of scope here.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	// GetByIdentifier matches username or email exactly, case sensitive.
	// Returns nil without error when nothing matches.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}
