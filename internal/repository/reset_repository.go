package repository

import (
	"context"
	"time"

	"github.com/iliyamo/school-management/internal/model"
)

// ResetRepo persists password-reset tokens.  Rows follow the same
// single-use discipline as the refresh-token ledger: a token validates a
// reset exactly once and never after its expiry.
type ResetRepo struct{ DB DBTX }

func NewResetRepo(db DBTX) *ResetRepo { return &ResetRepo{DB: db} }

// Store inserts a reset row and fills in its generated ID.
func (r *ResetRepo) Store(ctx context.Context, p *model.PasswordReset) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_resets (user_id, token_hash, expires_at) VALUES (?,?,?)",
		p.UserID, p.TokenHash, p.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetValid returns the unused, unexpired reset row matching (token hash,
// user).  Anything else is ErrNotFound.
func (r *ResetRepo) GetValid(ctx context.Context, tokenHash string, userID uint64) (model.PasswordReset, error) {
	var p model.PasswordReset
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,created_at,expires_at,used_at FROM password_resets WHERE token_hash=? AND user_id=? LIMIT 1",
		tokenHash, userID).Scan(&p.ID, &p.UserID, &p.TokenHash, &p.CreatedAt, &p.ExpiresAt, &p.UsedAt)
	if err != nil {
		return model.PasswordReset{}, err
	}
	if p.UsedAt != nil || time.Now().UTC().After(p.ExpiresAt) {
		return model.PasswordReset{}, ErrNotFound
	}
	return p, nil
}

// MarkUsed consumes a reset row.
func (r *ResetRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE password_resets SET used_at=? WHERE id=? AND used_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
