package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

var emailValidator = sync.OnceValue(func() *validator.Validate { return validator.New() })

// SubscriptionUseCase records newsletter sign-ups from the public site.
type SubscriptionUseCase struct {
	store  repository.SubscriptionStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSubscriptionUseCase constructs SubscriptionUseCase.
func NewSubscriptionUseCase(store repository.SubscriptionStore, logger *slog.Logger) *SubscriptionUseCase {
	return &SubscriptionUseCase{store: store, logger: logger, now: time.Now}
}

// Subscribe stores email once. A second sign-up with the same address
// returns ErrAlreadyExists.
func (u *SubscriptionUseCase) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domainErrors.NewValidationError("email", "is required")
	}
	if err := emailValidator().Var(email, "email"); err != nil {
		return domainErrors.NewValidationError("email", "is not a valid address")
	}

	if err := u.store.Subscribe(ctx, model.Subscription{Email: email, CreatedAt: u.now()}); err != nil {
		return domainErrors.Persistence("subscribe", err)
	}
	u.logger.Info("newsletter subscription", slog.String("email", email))
	return nil
}
