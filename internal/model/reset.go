package model

import "time"

// PasswordReset is one row of the append-only `password_resets` log.
// Multiple rows may exist per user; only the most recently created,
// unconsumed one can be redeemed.  Rows are never deleted, only
// superseded by recency or marked consumed.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the reset request (references users.id).
//  Token      – grouped token mailed to the user, same shape as a
//               registration code.
//  CreatedAt  – timestamp of creation; recency decides validity.
//  ConsumedAt – when the token was redeemed (null while live).
type PasswordReset struct {
	ID         uint64     // password_resets.id
	UserID     string     // password_resets.user_id
	Token      string     // password_resets.token
	CreatedAt  time.Time  // password_resets.created_at
	ConsumedAt *time.Time // password_resets.consumed_at (nullable)
}
