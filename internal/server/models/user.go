// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is an argon2id digest of the
// login password; Salt is the per-user hashing salt.
type User struct {
	ID           string    `db:"id"`
	UserName     string    `db:"username"`
	Salt         []byte    `db:"salt"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
