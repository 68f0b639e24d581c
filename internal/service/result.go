package service

import "time"

// Failure codes carried on AuthResult.  Handlers translate these into
// HTTP statuses; the service layer never speaks HTTP itself.
const (
	CodeValidation     = "validation_failed"
	CodeConflict       = "conflict"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeLocked         = "locked_out"
	CodeInvalidToken   = "invalid_token"
	CodeInvalidRefresh = "invalid_refresh_token"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal_error"
)

// UserDTO is the client-facing projection of a user record.  The
// password hash never leaves the service layer.
type UserDTO struct {
	ID          uint64     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Roles       []string   `json:"roles"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AuthResult is the uniform outcome of Register, Login and Refresh.
// Success carries a token pair and the user profile; failure carries a
// code from the set above plus client-safe error strings.  Raw internal
// error text stays in the server log and is never copied into Errors.
type AuthResult struct {
	Success      bool      `json:"success"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message"`
	Token        string    `json:"token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	User         *UserDTO  `json:"user,omitempty"`
	Errors       []string  `json:"errors,omitempty"`
}

func failure(code, message string, errs ...string) AuthResult {
	return AuthResult{Success: false, Code: code, Message: message, Errors: errs}
}

func internalFailure() AuthResult {
	return failure(CodeInternal, "Something went wrong. Please try again later.")
}
