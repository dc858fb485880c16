package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// AuthTokens is the credential pair returned on login and refresh.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the identity lifecycle. One-time tokens (email
// verification, password reset) are returned raw to the caller so the
// transport layer can deliver them; only their hashes are stored.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, *domain.User, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, userID string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
