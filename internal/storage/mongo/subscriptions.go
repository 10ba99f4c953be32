package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type subscriptionRepository struct {
	coll *mongo.Collection
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, sub model.Subscription) error {
	doc := subscriptionDocument{Email: sub.Email, CreatedAt: sub.CreatedAt}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}
