package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"travelguide/internal/auth"
	"travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService   service.AuthService
	jwtService    *auth.JWTService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies marks the session
// cookie Secure and should be set whenever the site is served over TLS.
func NewAuthHandler(authService service.AuthService, jwtService *auth.JWTService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		jwtService:    jwtService,
		secureCookies: secureCookies,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserResponse wraps a user.
type UserResponse struct {
	User    *model.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

// ValidateTokenResponse reports whether a reset token can still be redeemed.
type ValidateTokenResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, UserResponse{User: user, Message: "user registered successfully"})
}

// Login godoc
// @Summary Login user
// @Description Sets the HttpOnly session cookie on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}

	c.SetCookie(h.sessionCookie(result.SessionToken, result.ExpiresAt))
	return c.JSON(http.StatusOK, UserResponse{User: result.User, Message: "logged in"})
}

// Logout godoc
// @Summary Logout user
// @Description Deletes the server-side session and clears the cookie. Succeeds without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := h.jwtService.ValidateToken(cookie.Value); err == nil {
			if err := h.authService.Logout(c.Request().Context(), claims.ID); err != nil {
				return respondError(err)
			}
		}
	}

	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	c.SetCookie(expired)
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "logged out"})
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description Always reports success for well-formed addresses.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "if an account with this email exists, a reset link has been sent",
	})
}

// ValidateResetToken godoc
// @Summary Check a password reset token
// @Tags auth
// @Produce json
// @Param token query string true "Reset token"
// @Success 200 {object} ValidateTokenResponse
// @Failure 400 {object} ValidateTokenResponse
// @Failure 404 {object} ValidateTokenResponse
// @Router /auth/validate-reset-token [get]
func (h *AuthHandler) ValidateResetToken(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, ValidateTokenResponse{Valid: false})
	}

	user, err := h.authService.ValidateResetToken(c.Request().Context(), token)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, ValidateTokenResponse{Valid: true, Email: user.Email, Name: user.Name})
	case stderrors.Is(err, errors.ErrInvalidResetToken):
		return c.JSON(http.StatusBadRequest, ValidateTokenResponse{Valid: false, Error: err.Error()})
	case stderrors.Is(err, errors.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ValidateTokenResponse{Valid: false, Error: err.Error()})
	default:
		return respondError(err)
	}
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "password has been reset"})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
