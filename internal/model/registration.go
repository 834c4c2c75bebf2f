package model

import "time"

// Registration is a pending claim on an email address prior to account
// creation, stored in the `registrations` table.  At most one live row
// exists per email (unique index); the row is deleted in the same
// transaction that creates the account, so an email has a registration
// or a user, never both.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – claimed address (unique).
//  Code      – human-typable grouped code, e.g. AB12-CD34-EF56.
//  Valid     – set once the code was entered correctly.
//  CreatedAt – timestamp of creation.
type Registration struct {
	ID        uint64    // registrations.id
	Email     string    // registrations.email
	Code      string    // registrations.code
	Valid     bool      // registrations.valid
	CreatedAt time.Time // registrations.created_at
}
