package repository

import (
	"context"
	"database/sql"

	"github.com/armandsalle/poll/internal/model"
)

// ResetRepo persists password reset requests.  The table is an
// append-only log per user; recency picks the live token and consumed
// rows stay behind as history.
type ResetRepo struct{ DB *sql.DB }

func NewResetRepo(db *sql.DB) *ResetRepo { return &ResetRepo{DB: db} }

// Create appends a reset request with a fresh token.
func (r *ResetRepo) Create(ctx context.Context, userID, token string) (model.PasswordReset, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_resets (user_id, token) VALUES (?,?)",
		userID, token)
	if err != nil {
		return model.PasswordReset{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PasswordReset{}, err
	}
	return model.PasswordReset{ID: uint64(id), UserID: userID, Token: token}, nil
}

// GetMostRecent returns the newest reset request for a user, consumed or
// not.  Older rows are never considered.
func (r *ResetRepo) GetMostRecent(ctx context.Context, userID string) (model.PasswordReset, error) {
	var pr model.PasswordReset
	var consumed sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,created_at,consumed_at FROM password_resets WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT 1",
		userID).Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.CreatedAt, &consumed)
	if err != nil {
		return model.PasswordReset{}, err
	}
	if consumed.Valid {
		t := consumed.Time
		pr.ConsumedAt = &t
	}
	return pr, nil
}

// MarkConsumed stamps a reset request as redeemed.  The guard on
// consumed_at makes redemption at-most-once even under concurrent
// attempts: the second caller sees zero rows affected.
func (r *ResetRepo) MarkConsumed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE password_resets SET consumed_at=NOW() WHERE id=? AND consumed_at IS NULL", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
