// Package repository implements the credential store over MySQL.  Each
// repository wraps a *sql.DB and exposes the operations the identity
// flows need, keyed by email or id only.  Sentinel errors let the
// service layer distinguish failure scenarios without inspecting
// driver-specific error strings itself.
package repository

import "strings"

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).  Unique indexes on users.email and registrations.email
// are the arbiter for concurrent sign-up attempts, so the losing insert
// must surface as a conflict rather than a generic failure.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
