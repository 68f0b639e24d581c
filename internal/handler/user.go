package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-management/internal/service"
)

// UserHandler exposes the profile endpoints plus the administrative
// user-management surface (listing, role assignment, activation).
type UserHandler struct {
	Auth *service.AuthService
}

// NewUserHandler wires the handler with its service.
func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{Auth: auth}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Auth.GetUserByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// updateProfileRequest carries the editable profile fields.  Absent
// fields are left untouched, so a client may PATCH a single field.
type updateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     *string `json:"address"`
}

// UpdateMe applies a partial update to the caller's profile.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in := service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		in.DateOfBirth = dob
	}
	ok, err := h.Auth.UpdateProfile(c.Request().Context(), uid, in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	u, err := h.Auth.GetUserByID(c.Request().Context(), uid)
	if err != nil || u == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
	}
	return c.JSON(http.StatusOK, u)
}

// List returns every user.  Admin only.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Auth.GetAllUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "total": len(users)})
}

// Get returns one user by id.  Admin only.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	u, err := h.Auth.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// roleRequest names a role for assignment or removal.
type roleRequest struct {
	Role string `json:"role"`
}

// AssignRole grants a role to a user, creating the role on first use.
func (h *UserHandler) AssignRole(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}
	ok, err := h.Auth.AssignRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role assigned"})
}

// RemoveRole revokes a role from a user.  Removing a role the user does
// not hold is 404.
func (h *UserHandler) RemoveRole(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	role := c.Param("role")
	if role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}
	ok, err := h.Auth.RemoveRole(c.Request().Context(), id, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user does not hold that role"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role removed"})
}

// Roles lists the roles a user currently holds.
func (h *UserHandler) Roles(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	roles, err := h.Auth.GetUserRoles(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"roles": roles})
}

// Deactivate disables a user's account; a disabled account can no
// longer log in.
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false, "account deactivated")
}

// Activate re-enables a previously deactivated account.
func (h *UserHandler) Activate(c echo.Context) error {
	return h.setActive(c, true, "account activated")
}

func (h *UserHandler) setActive(c echo.Context, active bool, msg string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var ok bool
	if active {
		ok, err = h.Auth.ActivateAccount(c.Request().Context(), id)
	} else {
		ok, err = h.Auth.DeactivateAccount(c.Request().Context(), id)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// SweepTokens purges expired refresh tokens from the ledger and reports
// how many rows were removed.  Admin only.
func (h *UserHandler) SweepTokens(c echo.Context) error {
	n, err := h.Auth.SweepExpiredTokens(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sweep failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
