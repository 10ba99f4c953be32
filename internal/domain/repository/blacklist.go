package repository

import "context"

// BlacklistStore persists phone numbers suppressed from notification.
type BlacklistStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, number string) error
	Remove(ctx context.Context, number string) error
	Contains(ctx context.Context, number string) (bool, error)
}
