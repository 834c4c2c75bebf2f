package service_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/armandsalle/poll/internal/model"
	"github.com/armandsalle/poll/internal/notify"
	"github.com/armandsalle/poll/internal/repository"
)

// In-memory stand-ins for the MySQL repositories.  They mimic the
// contract the services rely on: sql.ErrNoRows for misses, the
// repository sentinel errors for unique-index conflicts, and the
// user-creation transaction that also removes the registration row.

type memStore struct {
	mu      sync.Mutex
	users   map[string]model.User // keyed by email
	hashes  map[string]string     // keyed by user id
	regs    map[string]model.Registration
	resets  []model.PasswordReset
	nextReg uint64
	nextRst uint64
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]model.User{},
		hashes: map[string]string{},
		regs:   map[string]model.Registration{},
	}
}

// --- UserStore ---

func (m *memStore) Create(_ context.Context, email, name, passwordHash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	u := model.User{ID: uuid.NewString(), Email: email, Name: name, ConfirmedEmail: true}
	m.users[email] = u
	m.hashes[u.ID] = passwordHash
	delete(m.regs, email) // same transaction as the insert in the real store
	return u, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memStore) PasswordHash(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[userID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return h, nil
}

func (m *memStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hashes[userID]; !ok {
		return sql.ErrNoRows
	}
	m.hashes[userID] = passwordHash
	return nil
}

// --- RegistrationStore ---

func (m *memStore) CreateRegistration(_ context.Context, email, code string) (model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.regs[email]; ok {
		return model.Registration{}, repository.ErrRegistrationExists
	}
	m.nextReg++
	reg := model.Registration{ID: m.nextReg, Email: email, Code: code, CreatedAt: time.Now()}
	m.regs[email] = reg
	return reg, nil
}

func (m *memStore) GetRegistrationByEmail(_ context.Context, email string) (model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[email]
	if !ok {
		return model.Registration{}, sql.ErrNoRows
	}
	return reg, nil
}

func (m *memStore) MarkRegistrationValid(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[email]
	if !ok {
		return sql.ErrNoRows
	}
	reg.Valid = true
	m.regs[email] = reg
	return nil
}

// --- ResetStore ---

func (m *memStore) CreateReset(_ context.Context, userID, token string) (model.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRst++
	pr := model.PasswordReset{ID: m.nextRst, UserID: userID, Token: token, CreatedAt: time.Now()}
	m.resets = append(m.resets, pr)
	return pr, nil
}

func (m *memStore) GetMostRecentReset(_ context.Context, userID string) (model.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.resets) - 1; i >= 0; i-- {
		if m.resets[i].UserID == userID {
			return m.resets[i], nil
		}
	}
	return model.PasswordReset{}, sql.ErrNoRows
}

func (m *memStore) MarkResetConsumed(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.resets {
		if m.resets[i].ID == id && m.resets[i].ConsumedAt == nil {
			now := time.Now()
			m.resets[i].ConsumedAt = &now
			return nil
		}
	}
	return sql.ErrNoRows
}

// regStore and resetStore adapt memStore to the narrower interfaces so
// one fixture backs all three services.

type regStore struct{ *memStore }

func (s regStore) Create(ctx context.Context, email, code string) (model.Registration, error) {
	return s.CreateRegistration(ctx, email, code)
}
func (s regStore) GetByEmail(ctx context.Context, email string) (model.Registration, error) {
	return s.GetRegistrationByEmail(ctx, email)
}
func (s regStore) MarkValid(ctx context.Context, email string) error {
	return s.MarkRegistrationValid(ctx, email)
}

type resetStore struct{ *memStore }

func (s resetStore) Create(ctx context.Context, userID, token string) (model.PasswordReset, error) {
	return s.CreateReset(ctx, userID, token)
}
func (s resetStore) GetMostRecent(ctx context.Context, userID string) (model.PasswordReset, error) {
	return s.GetMostRecentReset(ctx, userID)
}
func (s resetStore) MarkConsumed(ctx context.Context, id uint64) error {
	return s.MarkResetConsumed(ctx, id)
}

// fakeSender records outbound notifications and can be made to fail.
type fakeSender struct {
	mu       sync.Mutex
	sent     []notify.Message
	failWith error
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Message, len(f.sent))
	copy(out, f.sent)
	return out
}
