package domain

import "time"

// User models a registered identity. Credential and token material is never
// serialized in API responses.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	PasswordHash    string `json:"-"`
	IsEmailVerified bool   `json:"is_email_verified"`

	// One-time tokens are stored hashed; the raw value is only ever handed
	// to the transport layer at generation time.
	EmailVerificationToken  string    `json:"-"`
	EmailVerificationExpiry time.Time `json:"-"`
	PasswordResetToken      string    `json:"-"`
	PasswordResetExpiry     time.Time `json:"-"`
	RefreshToken            string    `json:"-"`
	RefreshTokenExpiry      time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
