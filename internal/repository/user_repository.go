package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/armandsalle/poll/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user together with its password hash and removes the
// pending registration for the same email, all in one transaction.  The
// hash must be computed by the caller beforehand so no hashing work
// happens while the transaction is open.
func (r *UserRepo) Create(ctx context.Context, email, name, passwordHash string) (model.User, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, email, name, confirmed_email) VALUES (?,?,?,1)",
		id, email, name); err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO passwords (user_id, hash) VALUES (?,?)",
		id, passwordHash); err != nil {
		return model.User{}, err
	}
	// The email now belongs to an account; the pending claim goes away.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM registrations WHERE email=?", email); err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Email: email, Name: name, ConfirmedEmail: true}, nil
}

// GetByEmail fetches a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,confirmed_email,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.Name, &u.ConfirmedEmail, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,confirmed_email,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.Name, &u.ConfirmedEmail, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// PasswordHash returns the stored bcrypt digest for a user.
func (r *UserRepo) PasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := r.DB.QueryRowContext(ctx,
		"SELECT hash FROM passwords WHERE user_id=? LIMIT 1", userID).Scan(&hash)
	return hash, err
}

// UpdatePassword replaces the user's password hash in place.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE passwords SET hash=? WHERE user_id=?", passwordHash, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByEmail removes a user and its password row.  Used by cleanup
// tooling, not by the request flows.
func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE p FROM passwords p JOIN users u ON u.id=p.user_id WHERE u.email=?", email); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE email=?", email); err != nil {
		return err
	}
	return tx.Commit()
}
