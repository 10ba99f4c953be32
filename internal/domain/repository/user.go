package repository

import (
	"context"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// UserRepository describes persistence operations for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// List returns at most limit accounts in id order.
	List(ctx context.Context, limit int) ([]model.User, error)
}
