package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/iliyamo/school-management/internal/model"
	"github.com/iliyamo/school-management/internal/queue"
	"github.com/iliyamo/school-management/internal/utils"
)

// resetTokenTTL bounds how long a password-reset token stays usable.
const resetTokenTTL = time.Hour

// ChangePassword replaces the user's password after verifying the
// current one.  Returns false for an unknown user or a bad current
// password; the caller cannot tell which.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) (bool, error) {
	if len(newPassword) < 8 {
		return false, nil
	}

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
		if !utils.VerifyPassword(user.PasswordHash, currentPassword) {
			return nil
		}

		hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		if err := uow.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// ForgotPassword creates a single-use reset token for the user and
// publishes a password.reset event for the notification pipeline.  It
// returns false only when the email is unknown; the HTTP layer answers
// identically either way so account existence is not leaked.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	uow := s.uow()
	var (
		found bool
		raw   string
		user  model.User
	)
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		u, err := uow.Users().GetByEmail(ctx, email)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		user = u

		reset, err := utils.NewResetToken(resetTokenTTL)
		if err != nil {
			return err
		}
		raw = reset.Raw

		row := model.PasswordReset{
			UserID:    u.ID,
			TokenHash: utils.HashTokenRaw(reset.Raw),
			ExpiresAt: reset.Exp,
		}
		if err := uow.Resets().Store(ctx, &row); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return false, err
	}

	if s.publisher != nil {
		ev := queue.PasswordResetEvent{
			UserID:      user.ID,
			Email:       user.Email,
			ResetToken:  raw,
			RequestedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishPasswordReset(ctx, ev); err != nil {
			log.Printf("auth: publish password.reset: %v", err)
		}
	}
	return true, nil
}

// ResetPassword consumes a reset token and replaces the user's password.
// All live refresh tokens are revoked so stolen sessions die with the
// old password.  Returns false for an unknown user or a token that does
// not validate.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) (bool, error) {
	if len(newPassword) < 8 {
		return false, nil
	}

	uow := s.uow()
	ok := false
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		user, err := uow.Users().GetByEmail(ctx, email)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}

		row, err := uow.Resets().GetValid(ctx, utils.HashTokenRaw(token), user.ID)
		if err != nil {
			if err == sql.ErrNoRows || isNotFound(err) {
				return nil
			}
			return err
		}

		hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		if err := uow.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		if err := uow.Resets().MarkUsed(ctx, row.ID); err != nil {
			return err
		}
		if err := uow.Tokens().RevokeAllForUser(ctx, user.ID); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}
