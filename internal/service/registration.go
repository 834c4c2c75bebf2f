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
	"github.com/armandsalle/poll/internal/repository"
	"github.com/armandsalle/poll/internal/utils"
)

// Registration drives an email through the sign-up states:
// unregistered -> code issued -> code verified -> account created.
// The issued and verified states live in the registrations table; the
// terminal state is the user row, at which point the registration row
// is gone (same transaction, see UserStore.Create).
type Registration struct {
	users         UserStore
	regs          RegistrationStore
	sender        notify.Sender
	baseURL       string
	bcryptCost    int
	notifyTimeout time.Duration
}

func NewRegistration(users UserStore, regs RegistrationStore, sender notify.Sender, baseURL string, bcryptCost int, notifyTimeout time.Duration) *Registration {
	return &Registration{
		users:         users,
		regs:          regs,
		sender:        sender,
		baseURL:       baseURL,
		bcryptCost:    bcryptCost,
		notifyTimeout: notifyTimeout,
	}
}

// Begin claims an email for sign-up and mails a verification code.  If
// a live registration already exists the same code is re-sent; a live
// code is never overwritten.  The email notification is best-effort:
// the registration stands even if the mail never went out, because
// calling Begin again re-sends it.
func (s *Registration) Begin(ctx context.Context, email string) (model.Registration, error) {
	if !validEmail(email) {
		return model.Registration{}, ErrInvalidEmail
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.Registration{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.Registration{}, fmt.Errorf("lookup user: %w", err)
	}

	reg, err := s.regs.GetByEmail(ctx, email)
	if err == nil {
		// Re-issue the existing flow: same code, fresh email.
		s.sendCode(reg)
		return reg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Registration{}, fmt.Errorf("lookup registration: %w", err)
	}

	code, err := utils.NewGroupedCode()
	if err != nil {
		return model.Registration{}, fmt.Errorf("generate code: %w", err)
	}
	reg, err = s.regs.Create(ctx, email, code)
	if err != nil {
		// A concurrent Begin for the same email won the insert; fall
		// back to its registration so both callers end up on the same
		// code-entry step.
		if errors.Is(err, repository.ErrRegistrationExists) {
			if reg, err2 := s.regs.GetByEmail(ctx, email); err2 == nil {
				s.sendCode(reg)
				return reg, nil
			}
		}
		return model.Registration{}, fmt.Errorf("create registration: %w", err)
	}

	s.sendCode(reg)
	return reg, nil
}

// VerifyCode checks the submitted code against the stored one.  The
// match is exact and case-sensitive; on success the registration is
// flagged valid and the caller may proceed to CompleteJoin.
func (s *Registration) VerifyCode(ctx context.Context, email, code string) error {
	if !validEmail(email) || code == "" {
		return ErrNoSuchRegistration
	}
	reg, err := s.regs.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoSuchRegistration
		}
		return fmt.Errorf("lookup registration: %w", err)
	}
	if code != reg.Code {
		return ErrCodeMismatch
	}
	if err := s.regs.MarkValid(ctx, email); err != nil {
		return fmt.Errorf("mark registration valid: %w", err)
	}
	return nil
}

// CompleteJoin turns a verified registration into an account.  The
// valid flag is re-checked from the store because this operation is
// reachable directly; client state is never trusted.  Hashing happens
// before the user+password transaction opens.
func (s *Registration) CompleteJoin(ctx context.Context, email, name, password string) (model.User, error) {
	if !validEmail(email) {
		return model.User{}, ErrInvalidEmail
	}
	reg, err := s.regs.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNoSuchRegistration
		}
		return model.User{}, fmt.Errorf("lookup registration: %w", err)
	}
	if !reg.Valid {
		return model.User{}, ErrNotVerified
	}
	if name == "" {
		return model.User{}, ErrInvalidName
	}
	if len(password) < minPasswordLen {
		return model.User{}, ErrWeakPassword
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, email, name, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	s.send(notify.KindWelcome, user.Email, map[string]string{
		"name": user.Name,
		"url":  s.baseURL,
	})
	return user, nil
}

// sendCode mails the verification code with a link back to the
// code-entry step.
func (s *Registration) sendCode(reg model.Registration) {
	u := s.baseURL + "/register?" + url.Values{"email": {reg.Email}}.Encode()
	s.send(notify.KindVerifyEmail, reg.Email, map[string]string{
		"code": reg.Code,
		"url":  u,
	})
}

// send fires a notification with a bounded timeout, detached from the
// request context so a client disconnect cannot cancel it.  Failure is
// logged only; the state transition it follows has already committed.
func (s *Registration) send(kind, recipient string, vars map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()
	if err := s.sender.Send(ctx, notify.Message{Kind: kind, Recipient: recipient, Variables: vars}); err != nil {
		log.Printf("notify: %s to %s failed: %v", kind, recipient, err)
	}
}
