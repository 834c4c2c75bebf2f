package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/armandsalle/poll/internal/model"
	"github.com/armandsalle/poll/internal/utils"
)

// Auth verifies login credentials.  Session minting stays with the
// session manager; this only answers "who is this, if anyone".
type Auth struct {
	users UserStore
}

func NewAuth(users UserStore) *Auth { return &Auth{users: users} }

// Login returns the user when email and password match.  Unknown email
// and wrong password both come back as ErrBadCredentials; the bcrypt
// comparison in VerifyPassword is the only place plaintext meets the
// stored digest.
func (s *Auth) Login(ctx context.Context, email, password string) (model.User, error) {
	if !validEmail(email) || password == "" {
		return model.User{}, ErrBadCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrBadCredentials
		}
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	hash, err := s.users.PasswordHash(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrBadCredentials
		}
		return model.User{}, fmt.Errorf("lookup password: %w", err)
	}
	if !utils.VerifyPassword(hash, password) {
		return model.User{}, ErrBadCredentials
	}
	return user, nil
}

// GetUser loads a user by id for protected endpoints.
func (s *Auth) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.users.GetByID(ctx, id)
}
