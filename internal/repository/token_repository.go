package repository

import (
	"context"
	"time"

	"github.com/iliyamo/school-management/internal/model"
)

// TokenRepo is the refresh-token ledger.  Every issued refresh token is
// its own row, so one user can hold several live sessions; a row stops
// validating forever once used, revoked or expired.
type TokenRepo struct{ DB DBTX }

func NewTokenRepo(db DBTX) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a ledger row and fills in its generated ID.
func (r *TokenRepo) Store(ctx context.Context, t *model.RefreshToken) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, jwt_id, is_used, is_revoked, expires_at) VALUES (?,?,?,?,?,?)",
		t.UserID, t.TokenHash, t.JWTID, t.IsUsed, t.IsRevoked, t.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetValid returns the ledger row matching (token hash, user) that is
// neither used, revoked nor expired.  Anything else is ErrNotFound.
func (r *TokenRepo) GetValid(ctx context.Context, tokenHash string, userID uint64) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,jwt_id,is_used,is_revoked,created_at,expires_at FROM refresh_tokens WHERE token_hash=? AND user_id=? LIMIT 1",
		tokenHash, userID).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.JWTID, &t.IsUsed, &t.IsRevoked, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return model.RefreshToken{}, err
	}
	if t.IsUsed || t.IsRevoked || time.Now().UTC().After(t.ExpiresAt) {
		return model.RefreshToken{}, ErrNotFound
	}
	return t, nil
}

// MarkUsed consumes a row during rotation.  A row already used or
// revoked is not consumed again; that case returns ErrNotFound.
func (r *TokenRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET is_used=1 WHERE id=? AND is_used=0 AND is_revoked=0", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllForUser revokes every live token of the user.  Revoking a
// user with no live tokens is a no-op, which keeps logout idempotent.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET is_revoked=1 WHERE user_id=? AND is_revoked=0", userID)
	return err
}

// DeleteExpired sweeps rows whose expiry has passed and reports how many
// were removed.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
