package app

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// HealthChecker pings the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DeskFacade exposes the use cases to the HTTP layer and the reconciler.
type DeskFacade struct {
	auth      *usecase.AuthUseCase
	lifecycle *usecase.LifecycleUseCase
	blacklist *usecase.BlacklistUseCase
	stats     *usecase.StatisticsUseCase
	subs      *usecase.SubscriptionUseCase
	health    HealthChecker
}

func NewDeskFacade(
	auth *usecase.AuthUseCase,
	lifecycle *usecase.LifecycleUseCase,
	blacklist *usecase.BlacklistUseCase,
	stats *usecase.StatisticsUseCase,
	subs *usecase.SubscriptionUseCase,
	health HealthChecker,
) *DeskFacade {
	return &DeskFacade{
		auth:      auth,
		lifecycle: lifecycle,
		blacklist: blacklist,
		stats:     stats,
		subs:      subs,
		health:    health,
	}
}

func (f *DeskFacade) Register(ctx context.Context, r usecase.Registration) (*model.User, error) {
	return f.auth.Register(ctx, r)
}

func (f *DeskFacade) Authenticate(ctx context.Context, email, password, code string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password, code)
}

func (f *DeskFacade) ValidateSession(token string) (model.Principal, error) {
	return f.auth.ValidateSession(token)
}

func (f *DeskFacade) RecoverPassword(ctx context.Context, email string) error {
	return f.auth.RecoverPassword(ctx, email)
}

func (f *DeskFacade) ResetPassword(ctx context.Context, token, password string) error {
	return f.auth.ResetPassword(ctx, token, password)
}

func (f *DeskFacade) ListUsers(ctx context.Context) ([]model.User, error) {
	return f.auth.ListUsers(ctx)
}

func (f *DeskFacade) Subscribe(ctx context.Context, email string) error {
	return f.subs.Subscribe(ctx, email)
}

func (f *DeskFacade) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	return f.lifecycle.ListActive(ctx)
}

func (f *DeskFacade) ShippedOrders(ctx context.Context) ([]model.Order, error) {
	return f.lifecycle.ListArchive(ctx)
}

func (f *DeskFacade) OrderHistory(ctx context.Context) ([]model.Order, error) {
	return f.lifecycle.ListHistory(ctx)
}

func (f *DeskFacade) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	return f.lifecycle.CreateOrder(ctx, order)
}

func (f *DeskFacade) CommitTransition(ctx context.Context, number, status string) (usecase.CommitResult, error) {
	return f.lifecycle.CommitTransition(ctx, number, status)
}

func (f *DeskFacade) DeleteOrder(ctx context.Context, number string) error {
	return f.lifecycle.DeleteOrder(ctx, number)
}

func (f *DeskFacade) Transitions(ctx context.Context, number string) ([]model.Transition, error) {
	return f.lifecycle.ListTransitions(ctx, number)
}

func (f *DeskFacade) Blacklist(ctx context.Context) ([]string, error) {
	return f.blacklist.List(ctx)
}

func (f *DeskFacade) ApplyBlacklist(ctx context.Context, number, intent string) (usecase.BlacklistResult, error) {
	return f.blacklist.Apply(ctx, number, intent)
}

func (f *DeskFacade) Statistics(ctx context.Context) (model.Statistics, error) {
	return f.stats.Statistics(ctx)
}

func (f *DeskFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// MirrorHistory refreshes the history entry of a still active order for
// the reconciler.
func (f *DeskFacade) MirrorHistory(ctx context.Context, number string) (bool, error) {
	return f.lifecycle.MirrorHistory(ctx, number)
}
