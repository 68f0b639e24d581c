package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-management/internal/service"
)

// AuthHandler exposes the authentication endpoints: registration,
// login, token refresh, logout and the password flows.  It is a thin
// layer over AuthService; all business rules live in the service, the
// handler only binds JSON and maps result codes to HTTP status codes.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler wires the handler with its service.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// statusFor translates a service result code into an HTTP status.
func statusFor(code string) int {
	switch code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeUnauthorized, service.CodeInvalidToken, service.CodeInvalidRefresh:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeLocked:
		return http.StatusLocked
	case service.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// registerRequest carries the registration payload.
type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	DateOfBirth     string `json:"date_of_birth"`
	Address         string `json:"address"`
	Role            string `json:"role"`
}

// Register creates a new account and returns the first token pair.
// Responds 201 on success, 400 on validation failure and 409 when the
// email is already taken.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}
	res := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           optString(req.Phone),
		DateOfBirth:     dob,
		Address:         optString(req.Address),
		Role:            req.Role,
	})
	if !res.Success {
		return c.JSON(statusFor(res.Code), res)
	}
	return c.JSON(http.StatusCreated, res)
}

// loginRequest carries the login payload.  RememberMe is accepted for
// client compatibility; session lifetime is governed server-side by the
// refresh token TTL.
type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Login verifies credentials and returns a token pair.  Locked-out
// accounts get 423, bad credentials 401, deactivated accounts 403.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if !res.Success {
		return c.JSON(statusFor(res.Code), res)
	}
	return c.JSON(http.StatusOK, res)
}

// refreshRequest carries the expired access token plus the refresh
// token that was issued alongside it.
type refreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token and returns a fresh pair.  Any
// mismatch between the pair members or a reused/revoked refresh token
// yields 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res := h.Auth.Refresh(c.Request().Context(), req.AccessToken, req.RefreshToken)
	if !res.Success {
		return c.JSON(statusFor(res.Code), res)
	}
	return c.JSON(http.StatusOK, res)
}

// Logout revokes every refresh token belonging to the caller.  The
// operation is idempotent: logging out twice is still 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Auth.Logout(c.Request().Context(), uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// changePasswordRequest carries the current and replacement passwords.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword replaces the caller's password after verifying the
// current one.  A wrong current password or a too-short new password
// both come back as 400 with ok=false, matching the boolean contract of
// the service.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ok, err := h.Auth.ChangePassword(c.Request().Context(), uid, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change password failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password incorrect or new password too weak"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// forgotPasswordRequest carries the email a reset is requested for.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword starts the reset flow.  The response is 200 whether or
// not the email exists, so the endpoint does not reveal which addresses
// are registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := h.Auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "forgot password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "if the account exists, a reset link has been sent"})
}

// resetPasswordRequest carries the emailed token and the new password.
type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword completes the reset flow.  An unknown, expired or
// already-used token yields 400.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ok, err := h.Auth.ResetPassword(c.Request().Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset password failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset"})
}
