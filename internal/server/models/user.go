// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. UserName holds the email address, which is
// the login identity.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
