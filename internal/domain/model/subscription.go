package model

import "time"

// Subscription is a newsletter sign-up from the public site.
type Subscription struct {
	Email     string
	CreatedAt time.Time
}
