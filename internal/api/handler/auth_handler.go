package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/api/metrics"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// RateLimiter is the interface the handler uses to throttle credential
// endpoints, keyed by client address.
type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, error)
}

// AuthHandler handles the identity endpoints.
type AuthHandler struct {
	authService ports.AuthService
	limiter     RateLimiter
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, limiter RateLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, verifyToken, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	// Email delivery is handled out of band; surface the token for it.
	h.log.Debug().Str("user_id", user.ID).Str("verification_token", verifyToken).Msg("verification token issued")

	return respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.allow(c, "login"); err != nil {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return err
	}

	tokens, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, authResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, "Login successful")
}

// Logout invalidates the caller's refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Logged out successfully")
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, authResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Token refreshed successfully")
}

// VerifyEmail confirms an address from the emailed token.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  apiResponse
// @Failure      401    {object}  errorResponse
// @Router       /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Email verified successfully")
}

// ResendVerification issues a fresh verification token.
//
// @Summary      Resend email verification
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /auth/resend-email-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	token, err := h.authService.ResendVerification(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	h.log.Debug().Str("user_id", userID).Str("verification_token", token).Msg("verification token reissued")
	return respond(c, http.StatusOK, nil, "Verification email sent")
}

// ForgotPassword issues a password reset token.
//
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  apiResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.allow(c, "forgot_password"); err != nil {
		return err
	}

	token, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	h.log.Debug().Str("email", req.Email).Str("reset_token", token).Msg("password reset token issued")
	return respond(c, http.StatusOK, nil, "Password reset email sent")
}

// ResetPassword sets a new password from a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  apiResponse
// @Failure      401    {object}  errorResponse
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Password reset successfully")
}

// ChangePassword rotates the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Password changed successfully")
}

// CurrentUser returns the authenticated user.
//
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /auth/current-user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User fetched successfully")
}

// allow applies the credential rate limit keyed by client IP. Limiter outages
// fail open: slowing attackers is not worth dropping logins.
func (h *AuthHandler) allow(c echo.Context, scope string) error {
	if h.limiter == nil {
		return nil
	}
	ok, err := h.limiter.Allow(c.Request().Context(), scope, c.RealIP())
	if err != nil {
		h.log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
		return nil
	}
	if !ok {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, try again later")
	}
	return nil
}
