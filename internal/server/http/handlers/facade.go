package handlers

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, r usecase.Registration) (*model.User, error)
	Authenticate(ctx context.Context, email, password, code string) (*model.User, string, error)
	ValidateSession(token string) (model.Principal, error)
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	ActiveOrders(ctx context.Context) ([]model.Order, error)
	ShippedOrders(ctx context.Context) ([]model.Order, error)
	OrderHistory(ctx context.Context) ([]model.Order, error)
	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
	CommitTransition(ctx context.Context, number, status string) (usecase.CommitResult, error)
	DeleteOrder(ctx context.Context, number string) error
	Transitions(ctx context.Context, number string) ([]model.Transition, error)
}

// BlacklistFacade maintains suppressed phone numbers.
type BlacklistFacade interface {
	Blacklist(ctx context.Context) ([]string, error)
	ApplyBlacklist(ctx context.Context, number, intent string) (usecase.BlacklistResult, error)
}

// StatisticsFacade computes dashboard rollups.
type StatisticsFacade interface {
	Statistics(ctx context.Context) (model.Statistics, error)
}

// SubscriptionFacade records newsletter sign-ups.
type SubscriptionFacade interface {
	Subscribe(ctx context.Context, email string) error
}

// HealthFacade reports store availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// DeskFacade aggregates the full set of operations used across handlers.
type DeskFacade interface {
	AuthFacade
	OrderFacade
	BlacklistFacade
	StatisticsFacade
	SubscriptionFacade
	HealthFacade
}
