package service

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/school-management/internal/config"
	"github.com/iliyamo/school-management/internal/model"
	"github.com/iliyamo/school-management/internal/queue"
	"github.com/iliyamo/school-management/internal/repository"
	"github.com/iliyamo/school-management/internal/utils"
)

// DefaultRole is assigned at registration when no role is requested.
const DefaultRole = "Student"

// Publisher abstracts the event queue so tests can run without a broker.
// Publish failures never fail the calling operation.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
	PublishPasswordReset(ctx context.Context, ev queue.PasswordResetEvent) error
}

// AuthService orchestrates the authentication workflow: registration,
// login, token refresh, logout, password management and role membership.
// Every mutating operation runs inside a single unit-of-work transaction
// so its writes commit together or not at all.  A fresh UnitOfWork is
// constructed per operation; no repository state survives a request.
type AuthService struct {
	db        *sql.DB
	cfg       config.Config
	lockout   *LockoutService
	publisher Publisher
}

// NewAuthService wires the workflow.  publisher may be nil, in which
// case no events are emitted.
func NewAuthService(db *sql.DB, cfg config.Config, lockout *LockoutService, publisher Publisher) *AuthService {
	return &AuthService{db: db, cfg: cfg, lockout: lockout, publisher: publisher}
}

func (s *AuthService) uow() *repository.UnitOfWork {
	return repository.NewUnitOfWork(s.db)
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           *string
	DateOfBirth     *time.Time
	Address         *string
	Role            string
}

func (in *RegisterInput) validate() []string {
	var errs []string
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		errs = append(errs, "a valid email is required")
	}
	if len(in.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if in.ConfirmPassword != in.Password {
		errs = append(errs, "passwords do not match")
	}
	if in.FirstName == "" {
		errs = append(errs, "first name is required")
	}
	if in.LastName == "" {
		errs = append(errs, "last name is required")
	}
	return errs
}

// Register creates a user with the requested role (default Student),
// issues a token pair and records the refresh token in the ledger.  A
// duplicate email yields a conflict; the unique index on users.email
// decides concurrent duplicates and the loser gets the same conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) AuthResult {
	if errs := in.validate(); len(errs) > 0 {
		return failure(CodeValidation, "Registration failed", errs...)
	}

	roleName := strings.TrimSpace(in.Role)
	if roleName == "" {
		roleName = DefaultRole
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		log.Printf("auth: hash password: %v", err)
		return internalFailure()
	}

	uow := s.uow()
	var result AuthResult
	err = uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		if _, err := uow.Users().GetByEmail(ctx, in.Email); err == nil {
			result = failure(CodeConflict, "Registration failed", "email already registered")
			return nil
		} else if err != sql.ErrNoRows {
			return err
		}

		user := model.User{
			Email:        in.Email,
			PasswordHash: hash,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Phone:        in.Phone,
			DateOfBirth:  in.DateOfBirth,
			Address:      in.Address,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := uow.Users().Create(ctx, &user); err != nil {
			if err == repository.ErrEmailExists {
				result = failure(CodeConflict, "Registration failed", "email already registered")
				return nil
			}
			return err
		}

		roleID, err := uow.Roles().Ensure(ctx, roleName)
		if err != nil {
			return err
		}
		if err := uow.Roles().Assign(ctx, user.ID, roleID); err != nil {
			return err
		}

		pair, err := s.issueTokens(ctx, uow, user, []string{roleName})
		if err != nil {
			return err
		}

		result = pair
		result.Message = "Registration successful"
		return nil
	})
	if err != nil {
		log.Printf("auth: register %s: %v", in.Email, err)
		return internalFailure()
	}

	if result.Success && s.publisher != nil {
		ev := queue.UserRegisteredEvent{
			UserID:       result.User.ID,
			Email:        result.User.Email,
			FullName:     result.User.FullName,
			Role:         roleName,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishUserRegistered(ctx, ev); err != nil {
			log.Printf("auth: publish user.registered: %v", err)
		}
	}
	return result
}

// Login verifies credentials and issues a fresh token pair.  Unknown
// email and wrong password produce the same unauthorized answer; a
// deactivated account is forbidden; too many recent failures lock the
// account out, correct password or not.
func (s *AuthService) Login(ctx context.Context, email, password string) AuthResult {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return failure(CodeValidation, "Login failed", "email and password are required")
	}

	if s.lockout.Locked(ctx, email) {
		return failure(CodeLocked, "Account locked",
			"account is locked due to multiple failed attempts, try again later")
	}

	uow := s.uow()
	var result AuthResult
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		user, err := uow.Users().GetByEmail(ctx, email)
		if err != nil {
			if err == sql.ErrNoRows {
				s.lockout.Failure(ctx, email)
				result = failure(CodeUnauthorized, "Invalid login attempt", "invalid email or password")
				return nil
			}
			return err
		}

		if !user.IsActive {
			result = failure(CodeForbidden, "Account is deactivated",
				"your account has been deactivated, contact an administrator")
			return nil
		}

		if !utils.VerifyPassword(user.PasswordHash, password) {
			s.lockout.Failure(ctx, email)
			result = failure(CodeUnauthorized, "Invalid login attempt", "invalid email or password")
			return nil
		}

		now := time.Now().UTC()
		if err := uow.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
			return err
		}
		user.LastLoginAt = &now

		roles, err := uow.Roles().ForUser(ctx, user.ID)
		if err != nil {
			return err
		}

		pair, err := s.issueTokens(ctx, uow, user, roles)
		if err != nil {
			return err
		}

		result = pair
		result.Message = "Login successful"
		return nil
	})
	if err != nil {
		log.Printf("auth: login %s: %v", email, err)
		return internalFailure()
	}

	if result.Success {
		s.lockout.Reset(ctx, email)
	}
	return result
}

// Refresh rotates a token pair.  The access token's signature must
// verify but its expiry (and issuer/audience) are deliberately ignored;
// the refresh token must match an unused, unrevoked, unexpired ledger
// row for that user whose recorded jti matches the access token.  The
// consumed row is marked used and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) AuthResult {
	userID, jti, err := utils.ParseExpired(s.cfg.JWTSecret, accessToken)
	if err != nil {
		return failure(CodeInvalidToken, "Invalid token", "invalid access token")
	}

	uow := s.uow()
	var result AuthResult
	err = uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		user, err := uow.Users().GetByID(ctx, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				result = failure(CodeInvalidToken, "Invalid token", "invalid access token")
				return nil
			}
			return err
		}

		row, err := uow.Tokens().GetValid(ctx, utils.HashTokenRaw(refreshToken), user.ID)
		if err != nil {
			if err == sql.ErrNoRows || err == repository.ErrNotFound {
				result = failure(CodeInvalidRefresh, "Invalid refresh token",
					"refresh token is invalid or expired")
				return nil
			}
			return err
		}
		if row.JWTID != jti {
			result = failure(CodeInvalidRefresh, "Invalid refresh token",
				"refresh token is invalid or expired")
			return nil
		}

		if err := uow.Tokens().MarkUsed(ctx, row.ID); err != nil {
			if err == repository.ErrNotFound {
				// A concurrent rotation consumed the row first; the
				// loser gets the same answer as any stale token.
				result = failure(CodeInvalidRefresh, "Invalid refresh token",
					"refresh token is invalid or expired")
				return nil
			}
			return err
		}

		roles, err := uow.Roles().ForUser(ctx, user.ID)
		if err != nil {
			return err
		}

		pair, err := s.issueTokens(ctx, uow, user, roles)
		if err != nil {
			return err
		}

		result = pair
		result.Message = "Token refreshed successfully"
		return nil
	})
	if err != nil {
		log.Printf("auth: refresh for user %d: %v", userID, err)
		return internalFailure()
	}
	return result
}

// Logout revokes every live refresh token of the user.  Calling it again
// when nothing is live is a successful no-op.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	uow := s.uow()
	return uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		return uow.Tokens().RevokeAllForUser(ctx, userID)
	})
}

// SweepExpiredTokens deletes ledger rows whose expiry has passed and
// reports how many were removed.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return s.uow().Tokens().DeleteExpired(ctx)
}

// issueTokens signs an access token for user, generates an opaque
// refresh token and records its hash in the ledger alongside the access
// token's jti.  Must run inside the caller's transaction.
func (s *AuthService) issueTokens(ctx context.Context, uow *repository.UnitOfWork, user model.User, roles []string) (AuthResult, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTAudience, utils.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Roles:     roles,
	}, s.cfg.AccessTTLMin)
	if err != nil {
		return AuthResult{}, err
	}

	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return AuthResult{}, err
	}

	row := model.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashTokenRaw(refresh.Raw),
		JWTID:     access.JTI,
		ExpiresAt: refresh.Exp,
	}
	if err := uow.Tokens().Store(ctx, &row); err != nil {
		return AuthResult{}, err
	}

	dto := userDTO(user, roles)
	return AuthResult{
		Success:      true,
		Token:        access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp,
		User:         &dto,
	}, nil
}

func userDTO(u model.User, roles []string) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Roles:       roles,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
