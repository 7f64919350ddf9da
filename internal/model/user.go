package model

import "time"

// User represents an authenticated account. Every transaction in the ledger
// is scoped to exactly one user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
