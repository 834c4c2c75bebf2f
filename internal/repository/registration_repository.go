package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/armandsalle/poll/internal/model"
)

// RegistrationRepo persists pending email claims (single live row per email).
type RegistrationRepo struct{ DB *sql.DB }

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{DB: db} }

var ErrRegistrationExists = errors.New("registration already exists")

// Create inserts a registration row with a freshly issued code.  The
// unique index on email serializes concurrent sign-up attempts; the
// loser gets ErrRegistrationExists.  A grouped-code collision would trip
// the same index on the code column and surface here too.
func (r *RegistrationRepo) Create(ctx context.Context, email, code string) (model.Registration, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO registrations (email, code, valid) VALUES (?,?,0)",
		email, code)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Registration{}, ErrRegistrationExists
		}
		return model.Registration{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Registration{}, err
	}
	return model.Registration{ID: uint64(id), Email: email, Code: code}, nil
}

// GetByEmail fetches the live registration for an email.
func (r *RegistrationRepo) GetByEmail(ctx context.Context, email string) (model.Registration, error) {
	var reg model.Registration
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,code,valid,created_at FROM registrations WHERE email=? LIMIT 1",
		email).Scan(&reg.ID, &reg.Email, &reg.Code, &reg.Valid, &reg.CreatedAt)
	return reg, err
}

// MarkValid records that the code was entered correctly for this email.
// Re-verifying an already valid registration is a no-op, so affected
// rows are deliberately not checked here.
func (r *RegistrationRepo) MarkValid(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE registrations SET valid=1 WHERE email=?", email)
	return err
}

// Delete removes the registration for an email.  The join flow deletes
// inside the user-creation transaction instead; this standalone variant
// exists for admin cleanup.
func (r *RegistrationRepo) Delete(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM registrations WHERE email=?", email)
	return err
}
