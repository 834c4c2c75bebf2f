package service

import (
	"context"
	"strings"

	"github.com/armandsalle/poll/internal/model"
)

// Store interfaces consumed by the services.  internal/repository
// provides the MySQL implementations; tests provide in-memory fakes.
// All operations are keyed by exact email or id, never partial matches.

type UserStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	PasswordHash(ctx context.Context, userID string) (string, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type RegistrationStore interface {
	Create(ctx context.Context, email, code string) (model.Registration, error)
	GetByEmail(ctx context.Context, email string) (model.Registration, error)
	MarkValid(ctx context.Context, email string) error
}

type ResetStore interface {
	Create(ctx context.Context, userID, token string) (model.PasswordReset, error)
	GetMostRecent(ctx context.Context, userID string) (model.PasswordReset, error)
	MarkConsumed(ctx context.Context, id uint64) error
}

// minPasswordLen is the uniform floor for both sign-up and reset.
const minPasswordLen = 8

// validEmail applies the same lightweight format check the sign-up form
// does: something before and after an @, no spaces.  The store's unique
// index, not this check, is what guarantees one account per address.
func validEmail(email string) bool {
	if len(email) < 4 || strings.ContainsAny(email, " \t\n") {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
