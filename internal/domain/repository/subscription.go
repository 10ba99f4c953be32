package repository

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// SubscriptionStore keeps newsletter sign-ups, one per email.
type SubscriptionStore interface {
	// Subscribe returns ErrAlreadyExists when the email is already stored.
	Subscribe(ctx context.Context, sub model.Subscription) error
}
