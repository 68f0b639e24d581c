package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/school-management/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// GetUserByID returns the user's profile, or nil when no such user
// exists.
func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*UserDTO, error) {
	uow := s.uow()
	user, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	roles, err := uow.Roles().ForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	dto := userDTO(user, roles)
	return &dto, nil
}

// GetUserByEmail returns the user's profile, or nil when no such user
// exists.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*UserDTO, error) {
	uow := s.uow()
	user, err := uow.Users().GetByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	roles, err := uow.Roles().ForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	dto := userDTO(user, roles)
	return &dto, nil
}

// GetAllUsers returns profiles for every user.
func (s *AuthService) GetAllUsers(ctx context.Context) ([]UserDTO, error) {
	uow := s.uow()
	users, err := uow.Users().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		roles, err := uow.Roles().ForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, userDTO(u, roles))
	}
	return dtos, nil
}

// UpdateProfileInput patches profile fields; nil fields keep their
// current value.
type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *time.Time
	Address     *string
}

// UpdateProfile patches the user's profile.  Returns false for an
// unknown user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, in UpdateProfileInput) (bool, error) {
	uow := s.uow()
	ok := false
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		user, err := uow.Users().GetByID(ctx, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		if in.FirstName != nil && strings.TrimSpace(*in.FirstName) != "" {
			user.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil && strings.TrimSpace(*in.LastName) != "" {
			user.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Phone != nil {
			user.Phone = in.Phone
		}
		if in.DateOfBirth != nil {
			user.DateOfBirth = in.DateOfBirth
		}
		if in.Address != nil {
			user.Address = in.Address
		}
		if err := uow.Users().UpdateProfile(ctx, &user); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// DeactivateAccount marks the account inactive.  Returns false for an
// unknown user.
func (s *AuthService) DeactivateAccount(ctx context.Context, userID uint64) (bool, error) {
	return s.setActive(ctx, userID, false)
}

// ActivateAccount marks the account active again.  Returns false for an
// unknown user.
func (s *AuthService) ActivateAccount(ctx context.Context, userID uint64) (bool, error) {
	return s.setActive(ctx, userID, true)
}

func (s *AuthService) setActive(ctx context.Context, userID uint64, active bool) (bool, error) {
	uow := s.uow()
	ok := false
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		if err := uow.Users().SetActive(ctx, userID, active); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// AssignRole adds the user to the named role, creating the role on
// demand.  Returns false for an unknown user.
func (s *AuthService) AssignRole(ctx context.Context, userID uint64, roleName string) (bool, error) {
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		return false, nil
	}

	uow := s.uow()
	ok := false
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		if _, err := uow.Users().GetByID(ctx, userID); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		roleID, err := uow.Roles().Ensure(ctx, roleName)
		if err != nil {
			return err
		}
		if err := uow.Roles().Assign(ctx, userID, roleID); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// RemoveRole drops the user's membership in the named role.  Returns
// false when the user is unknown or did not hold the role.
func (s *AuthService) RemoveRole(ctx context.Context, userID uint64, roleName string) (bool, error) {
	uow := s.uow()
	ok := false
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		if _, err := uow.Users().GetByID(ctx, userID); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		if err := uow.Roles().Remove(ctx, userID, roleName); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// GetUserRoles returns the role names held by the user.  An unknown
// user yields an empty list.
func (s *AuthService) GetUserRoles(ctx context.Context, userID uint64) ([]string, error) {
	roles, err := s.uow().Roles().ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}
	return roles, nil
}
