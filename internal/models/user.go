package models

import "time"

// User represents a registered account persisted in the users file.
// Passwords are stored in plaintext; this is a demo credential store,
// not real authentication.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"password"`
	RecoveryPhrase string    `json:"recoveryPhrase"`
	CreatedAt      time.Time `json:"createdAt"`
}
