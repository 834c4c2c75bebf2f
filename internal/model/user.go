package model

import "time"

// User represents an account record as stored in the `users` table.
// The password hash lives in a separate one-to-one `passwords` row and
// never travels with this struct; handlers define their own response
// types so the json tags are intentionally omitted here.
//
// Fields:
//  ID             – opaque stable identifier (UUID string).
//  Email          – unique email address, stored as submitted.
//  Name           – display name chosen at sign-up.
//  ConfirmedEmail – whether the address was proven by a verification code.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
	ID             string    // users.id
	Email          string    // users.email
	Name           string    // users.name
	ConfirmedEmail bool      // users.confirmed_email
	CreatedAt      time.Time // users.created_at
	UpdatedAt      time.Time // users.updated_at
}

// Password models the `passwords` table.  Exactly one row exists per
// user; it is created in the same transaction as the user and replaced
// in place on password change or reset.
//
// Fields:
//  UserID – owner of the hash (primary key, references users.id).
//  Hash   – bcrypt digest of the password.  The plaintext is never stored.
type Password struct {
	UserID string // passwords.user_id
	Hash   string // passwords.hash
}
