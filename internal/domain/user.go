package domain

import "time"

// User represents a passenger or driver account.
type User struct {
	ID          string
	Name        string
	PhoneNumber string
	CreatedAt   time.Time
}
