package profile

import (
	"context"

	"heven-store/internal/domain"
)

// UpdateInput carries the profile fields a user may edit themselves.
type UpdateInput struct {
	FirstName string
	LastName  string
	Phone     *string
}

type Repository interface {
	// CreateWithIdentity inserts the identity row and its profile in one
	// transaction. Returns domain.ErrAlreadyExists on a duplicate email.
	CreateWithIdentity(ctx context.Context, email, passwordHash string, p domain.Profile) (*domain.Profile, error)
	GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Profile, error)
	// SetRole changes the business role; the identity row is untouched.
	SetRole(ctx context.Context, id string, role domain.Role) error
}
