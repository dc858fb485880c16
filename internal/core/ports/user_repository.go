package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// UserRepository defines persistence for user identities. Token lookups take
// the hashed token value; hashing happens in the service layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByVerificationToken(ctx context.Context, tokenHash string) (*domain.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)
	FindByRefreshToken(ctx context.Context, tokenHash string) (*domain.User, error)
	// Update persists a previously loaded user (upsert-on-loaded-entity semantics).
	Update(ctx context.Context, user *domain.User) error
}
