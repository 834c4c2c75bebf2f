package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/armandsalle/poll/internal/model"
	"github.com/armandsalle/poll/internal/notify"
	"github.com/armandsalle/poll/internal/utils"
)

// PasswordReset drives the one-time-token reset flow:
// no request -> token issued -> token consumed.  Requests append to a
// per-user log; only the newest unconsumed token redeems, and redeeming
// it is terminal.
type PasswordReset struct {
	users         UserStore
	resets        ResetStore
	sender        notify.Sender
	baseURL       string
	bcryptCost    int
	notifyTimeout time.Duration
}

func NewPasswordReset(users UserStore, resets ResetStore, sender notify.Sender, baseURL string, bcryptCost int, notifyTimeout time.Duration) *PasswordReset {
	return &PasswordReset{
		users:         users,
		resets:        resets,
		sender:        sender,
		baseURL:       baseURL,
		bcryptCost:    bcryptCost,
		notifyTimeout: notifyTimeout,
	}
}

// Request issues a reset token for the account behind email.  When no
// account exists it returns nil without creating a row or sending mail,
// so the response shape is identical either way and cannot be used to
// probe for accounts.
func (s *PasswordReset) Request(ctx context.Context, email string) error {
	if !validEmail(email) {
		return ErrInvalidEmail
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := utils.NewGroupedCode()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	req, err := s.resets.Create(ctx, user.ID, token)
	if err != nil {
		return fmt.Errorf("create reset request: %w", err)
	}

	u := s.baseURL + "/new-password?" + url.Values{
		"email": {user.Email},
		"token": {req.Token},
	}.Encode()
	s.send(notify.KindResetPassword, user.Email, map[string]string{
		"name":  user.Name,
		"token": req.Token,
		"url":   u,
	})
	return nil
}

// ResolveToken maps (email, token) back to the user it belongs to.  Any
// failure — unknown email, no request on file, an older superseded
// token, an already consumed one, or a plain mismatch — is the same
// ErrTokenInvalid; the caller learns nothing about which part was wrong.
func (s *PasswordReset) ResolveToken(ctx context.Context, email, token string) (model.User, error) {
	user, _, err := s.resolve(ctx, email, token)
	return user, err
}

// resolve additionally returns the request row the token matched, so a
// redeem consumes exactly the row it validated even if another Request
// appends a newer one in between.
func (s *PasswordReset) resolve(ctx context.Context, email, token string) (model.User, model.PasswordReset, error) {
	if !validEmail(email) || token == "" {
		return model.User{}, model.PasswordReset{}, ErrTokenInvalid
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.PasswordReset{}, ErrTokenInvalid
		}
		return model.User{}, model.PasswordReset{}, fmt.Errorf("lookup user: %w", err)
	}
	req, err := s.resets.GetMostRecent(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.PasswordReset{}, ErrTokenInvalid
		}
		return model.User{}, model.PasswordReset{}, fmt.Errorf("lookup reset request: %w", err)
	}
	if req.ConsumedAt != nil || token != req.Token {
		return model.User{}, model.PasswordReset{}, ErrTokenInvalid
	}
	return user, req, nil
}

// SetNewPassword redeems a token and replaces the password hash.  The
// token is consumed first: once stamped it can never re-set a password,
// even if two requests race on it.
func (s *PasswordReset) SetNewPassword(ctx context.Context, email, token, newPassword string) error {
	user, req, err := s.resolve(ctx, email, token)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.resets.MarkConsumed(ctx, req.ID); err != nil {
		// Zero rows stamped means another redeem got here first.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("consume reset request: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *PasswordReset) send(kind, recipient string, vars map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()
	if err := s.sender.Send(ctx, notify.Message{Kind: kind, Recipient: recipient, Variables: vars}); err != nil {
		log.Printf("notify: %s to %s failed: %v", kind, recipient, err)
	}
}
