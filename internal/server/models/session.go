package models

import "time"

// Session is a server-side login record. The browser only holds a signed
// token that references it; deleting the record logs the user out.
type Session struct {
	ID        string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
