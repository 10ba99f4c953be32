package model

import "time"

// User is a staff account of the back office.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	SecondaryCode int
	FirstName     string
	LastName      string
	Username      string
	Phone         string
	CreatedAt     time.Time

	ResetToken     string
	ResetExpiresAt time.Time
}

// Principal is what a valid session token resolves to.
type Principal struct {
	UserID        int64
	Email         string
	SecondaryCode int
}
