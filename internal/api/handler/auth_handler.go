package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quizplatform/quiz-api/internal/api/metrics"
	"github.com/quizplatform/quiz-api/internal/api/middleware"
	"github.com/quizplatform/quiz-api/internal/core/ports"
)

// AuthHandler exposes the credential & token service over HTTP.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and returns it with a token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      409   {object}  apiResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		RemoteIP: c.RealIP(),
	})
	metrics.CredentialOpDuration.WithLabelValues("register").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return respond(c, http.StatusCreated, result, "User registered successfully")
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	metrics.CredentialOpDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, result, "Login successful")
}

// Refresh exchanges a valid refresh token for a brand-new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken, c.RealIP())
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, pair, "Tokens refreshed successfully")
}

// Logout acknowledges a logout. Tokens are stateless: nothing is revoked
// server-side and the pair stays valid until natural expiry.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "")
}

// UpdateProfile sets the display name on the authenticated user.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  apiResponse
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), principal.ID, req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Profile updated successfully")
}

// ChangePassword replaces the stored hash after verifying the current
// password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	err = h.authService.ChangePassword(c.Request().Context(), principal.ID, req.CurrentPassword, req.NewPassword)
	metrics.CredentialOpDuration.WithLabelValues("change_password").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Password changed successfully")
}

// ForgotPassword stores a reset code for the account. The response is
// identical whether or not the email exists.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  apiResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email, c.RealIP()); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "If an account with this email exists, a reset code has been sent")
}

// ResetPassword redeems a reset code for a new password.
//
// @Summary      Reset password with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword)
	metrics.CredentialOpDuration.WithLabelValues("reset_password").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Password reset successful")
}

// Session reports whether the caller holds a valid access token. It sits
// behind OptionalAuth: a missing or invalid token yields an anonymous
// response instead of a rejection.
//
// @Summary      Probe session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  apiResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	if principal, ok := middleware.PrincipalFrom(c); ok {
		return respond(c, http.StatusOK, map[string]any{
			"authenticated": true,
			"principal":     principal,
		}, "")
	}
	return respond(c, http.StatusOK, map[string]any{"authenticated": false}, "")
}

// EnableTwoFactor turns the two-factor flag on.
//
// @Summary      Enable two-factor authentication
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /auth/enable-2fa [post]
func (h *AuthHandler) EnableTwoFactor(c echo.Context) error {
	return h.setTwoFactor(c, true, "Two-factor authentication enabled")
}

// DisableTwoFactor turns the two-factor flag off.
//
// @Summary      Disable two-factor authentication
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /auth/disable-2fa [post]
func (h *AuthHandler) DisableTwoFactor(c echo.Context) error {
	return h.setTwoFactor(c, false, "Two-factor authentication disabled")
}

func (h *AuthHandler) setTwoFactor(c echo.Context, enabled bool, message string) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.SetTwoFactor(c.Request().Context(), principal.ID, enabled)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, message)
}
