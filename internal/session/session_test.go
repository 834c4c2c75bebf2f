package session

import (
	"errors"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager("test-secret-key", 30*time.Minute, 7*24*time.Hour, false)
}

func TestCreateAndRead(t *testing.T) {
	m := newTestManager()

	artifact, exp, err := m.Create("user-123", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if time.Until(exp) > 31*time.Minute {
		t.Fatalf("short session expiry too far out: %v", exp)
	}

	userID, ok := m.Read(artifact)
	if !ok {
		t.Fatal("expected artifact to verify")
	}
	if userID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", userID, "user-123")
	}
}

func TestCreate_RememberExtendsExpiry(t *testing.T) {
	m := newTestManager()

	_, short, err := m.Create("u", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	_, long, err := m.Create("u", true)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !long.After(short.Add(24 * time.Hour)) {
		t.Fatalf("remember expiry %v not meaningfully later than %v", long, short)
	}
}

func TestRead_InvalidArtifacts(t *testing.T) {
	m := newTestManager()

	valid, _, err := m.Create("user-123", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	other := NewManager("another-secret", 30*time.Minute, 7*24*time.Hour, false)
	foreign, _, err := other.Create("user-123", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	cases := []struct {
		name     string
		artifact string
	}{
		{"empty", ""},
		{"malformed", "not.a.jwt"},
		{"tampered", valid[:len(valid)-4] + "XXXX"},
		{"wrong secret", foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if id, ok := m.Read(tc.artifact); ok || id != "" {
				t.Fatalf("expected no identity, got %q", id)
			}
		})
	}
}

func TestRead_Expired(t *testing.T) {
	m := NewManager("test-secret-key", -time.Second, 7*24*time.Hour, false)

	artifact, _, err := m.Create("user-123", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, ok := m.Read(artifact); ok {
		t.Fatal("expired artifact must not verify")
	}
}

func TestRequire(t *testing.T) {
	m := newTestManager()

	artifact, _, err := m.Create("user-123", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	userID, err := m.Require(artifact)
	if err != nil {
		t.Fatalf("Require error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("userID mismatch: got %q", userID)
	}

	if _, err := m.Require("garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCookies(t *testing.T) {
	m := newTestManager()

	artifact, exp, err := m.Create("user-123", true)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	remembered := m.Cookie(artifact, exp, true)
	if remembered.Expires.IsZero() {
		t.Fatal("remembered cookie must carry an expiry")
	}
	if !remembered.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	scoped := m.Cookie(artifact, exp, false)
	if !scoped.Expires.IsZero() || scoped.MaxAge != 0 {
		t.Fatal("session-scoped cookie must not persist past the browser session")
	}

	cleared := m.ClearCookie()
	if cleared.MaxAge != -1 || cleared.Value != "" {
		t.Fatal("clear cookie must delete the session client-side")
	}
}
