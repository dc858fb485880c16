package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

const (
	verificationTokenTTL = 20 * time.Minute
	resetTokenTTL        = 10 * time.Minute
)

// AuthService implements the identity lifecycle: registration, login with
// refresh-token rotation, email verification and password management.
type AuthService struct {
	repo       ports.UserRepository
	jwtSecret  string
	tokenTTL   time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL, refreshTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, refreshTTL: refreshTTL, log: log}
}

// Register creates an unverified user and returns the raw email-verification
// token for delivery by the transport layer.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if email == "" || username == "" || input.Password == "" {
		return nil, "", domain.Validationf("email, username and password are required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	token := newToken()
	now := time.Now().UTC()
	user := &domain.User{
		Email:                   email,
		Username:                username,
		PasswordHash:            string(hash),
		EmailVerificationToken:  hashToken(token),
		EmailVerificationExpiry: now.Add(verificationTokenTTL),
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", username).Msg("user registered")
	return created, token, nil
}

// Login verifies credentials and rotates the refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthTokens, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return tokens, user, nil
}

// Logout invalidates the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	user.RefreshTokenExpiry = time.Time{}
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The presented
// token is single-use: rotation replaces it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.repo.FindByRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if time.Now().UTC().After(user.RefreshTokenExpiry) {
		return nil, domain.ErrInvalidToken
	}
	return s.issueTokens(ctx, user)
}

// VerifyEmail marks the account verified when the token matches and is fresh.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := s.repo.FindByVerificationToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if time.Now().UTC().After(user.EmailVerificationExpiry) {
		return domain.ErrInvalidToken
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = ""
	user.EmailVerificationExpiry = time.Time{}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// ResendVerification issues a fresh verification token for an unverified user.
func (s *AuthService) ResendVerification(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.IsEmailVerified {
		return "", domain.Validationf("email is already verified")
	}

	token := newToken()
	user.EmailVerificationToken = hashToken(token)
	user.EmailVerificationExpiry = time.Now().UTC().Add(verificationTokenTTL)
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}
	return token, nil
}

// ForgotPassword issues a short-lived password reset token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", domain.Validationf("email is required")
	}
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	token := newToken()
	user.PasswordResetToken = hashToken(token)
	user.PasswordResetExpiry = time.Now().UTC().Add(resetTokenTTL)
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return token, nil
}

// ResetPassword sets a new password from a valid reset token and revokes any
// active session.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	if newPassword == "" {
		return domain.Validationf("password is required")
	}
	user, err := s.repo.FindByResetToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if time.Now().UTC().After(user.PasswordResetExpiry) {
		return domain.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.PasswordResetToken = ""
	user.PasswordResetExpiry = time.Time{}
	user.RefreshToken = ""
	user.RefreshTokenExpiry = time.Time{}
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

// ChangePassword verifies the current password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.Validationf("new password is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

// CurrentUser returns the authenticated user's record.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*ports.AuthTokens, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh := newToken()
	user.RefreshToken = hashToken(refresh)
	user.RefreshTokenExpiry = time.Now().UTC().Add(s.refreshTTL)
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &ports.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newToken returns an unguessable one-time token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// hashToken is the at-rest form of one-time tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
