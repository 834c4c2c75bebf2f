package utils

import "testing"

// Cost 4 keeps bcrypt fast in tests.
const testCost = 4

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password1", testCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "password1" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "password1") {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword(hash, "password2") {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("password1", testCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("password1", testCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (per-call salt)")
	}
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-digest", "password1") {
		t.Fatal("garbage hash must not verify")
	}
}
