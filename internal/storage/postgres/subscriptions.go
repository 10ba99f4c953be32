package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type subscriptionRepository struct {
	storage *Storage
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, sub model.Subscription) error {
	const query = `INSERT INTO subscriptions (email, created_at) VALUES ($1, $2)`
	if _, err := r.storage.pool.Exec(ctx, query, sub.Email, sub.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}
