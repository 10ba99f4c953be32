package repository

import "context"

// Factory gives access to the stores of one backend.
type Factory interface {
	Orders() OrderStore
	Blacklist() BlacklistStore
	Users() UserRepository
	Subscriptions() SubscriptionStore
	HealthCheck(ctx context.Context) error
	Close()
}
