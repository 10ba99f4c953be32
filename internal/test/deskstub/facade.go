// Package deskstub holds a configurable dashboard facade for HTTP tests.
package deskstub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// SampleOrder returns a pending order used by handler tests.
func SampleOrder(number string) model.Order {
	return model.Order{
		Number:       number,
		CreatedAt:    time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		TimeOfDay:    "12:00",
		Item:         "Hamburguesa",
		Combo:        "Combo 1",
		Extras:       "Papas",
		CustomerName: "Ana",
		Phone:        "5551234",
		Address:      "Calle 1",
		Payment:      "efectivo",
		Status:       model.OrderStatusPending,
		StatusLabel:  model.OrderStatusPending.Label(),
	}
}

// Facade provides controllable behaviour for every dashboard endpoint.
// Unset functions fall back to a successful default.
type Facade struct {
	RegisterFn     func(context.Context, usecase.Registration) (*model.User, error)
	AuthenticateFn func(context.Context, string, string, string) (*model.User, string, error)
	ValidateFn     func(string) (model.Principal, error)
	RecoverFn      func(context.Context, string) error
	ResetFn        func(context.Context, string, string) error
	ListUsersFn    func(context.Context) ([]model.User, error)

	ActiveFn      func(context.Context) ([]model.Order, error)
	ShippedFn     func(context.Context) ([]model.Order, error)
	HistoryFn     func(context.Context) ([]model.Order, error)
	CreateFn      func(context.Context, model.Order) (model.Order, error)
	CommitFn      func(context.Context, string, string) (usecase.CommitResult, error)
	DeleteFn      func(context.Context, string) error
	TransitionsFn func(context.Context, string) ([]model.Transition, error)

	BlacklistFn func(context.Context) ([]string, error)
	ApplyFn     func(context.Context, string, string) (usecase.BlacklistResult, error)

	StatisticsFn func(context.Context) (model.Statistics, error)
	SubscribeFn  func(context.Context, string) error
	HealthFn     func(context.Context) error
}

// Register delegates to RegisterFn or echoes the registration.
func (s Facade) Register(ctx context.Context, r usecase.Registration) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, r)
	}
	return &model.User{ID: 1, Email: r.Email, FirstName: r.FirstName}, nil
}

// Authenticate delegates to AuthenticateFn or returns a fixed token.
func (s Facade) Authenticate(ctx context.Context, email, password, code string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password, code)
	}
	return &model.User{ID: 1, Email: email}, "token", nil
}

// ValidateSession delegates to ValidateFn or accepts every token.
func (s Facade) ValidateSession(token string) (model.Principal, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(token)
	}
	return model.Principal{UserID: 1, Email: "staff@example.com"}, nil
}

func (s Facade) RecoverPassword(ctx context.Context, email string) error {
	if s.RecoverFn != nil {
		return s.RecoverFn(ctx, email)
	}
	return nil
}

func (s Facade) ResetPassword(ctx context.Context, token, password string) error {
	if s.ResetFn != nil {
		return s.ResetFn(ctx, token, password)
	}
	return nil
}

// ActiveOrders returns one sample order unless overridden.
func (s Facade) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	if s.ActiveFn != nil {
		return s.ActiveFn(ctx)
	}
	return []model.Order{SampleOrder("A1")}, nil
}

func (s Facade) ShippedOrders(ctx context.Context) ([]model.Order, error) {
	if s.ShippedFn != nil {
		return s.ShippedFn(ctx)
	}
	return nil, nil
}

func (s Facade) OrderHistory(ctx context.Context) ([]model.Order, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx)
	}
	return nil, nil
}

// CreateOrder echoes the order with a pending status.
func (s Facade) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	order.Status = model.OrderStatusPending
	order.StatusLabel = model.OrderStatusPending.Label()
	return order, nil
}

// CommitTransition reports a notified commit unless overridden.
func (s Facade) CommitTransition(ctx context.Context, number, status string) (usecase.CommitResult, error) {
	if s.CommitFn != nil {
		return s.CommitFn(ctx, number, status)
	}
	parsed, err := model.ParseOrderStatus(status)
	if err != nil {
		return usecase.CommitResult{}, err
	}
	order := SampleOrder(number)
	order.Status = parsed
	order.StatusLabel = parsed.Label()
	return usecase.CommitResult{Order: order, Notified: true, Archived: parsed.IsTerminal()}, nil
}

func (s Facade) DeleteOrder(ctx context.Context, number string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, number)
	}
	return nil
}

func (s Facade) Transitions(ctx context.Context, number string) ([]model.Transition, error) {
	if s.TransitionsFn != nil {
		return s.TransitionsFn(ctx, number)
	}
	return nil, nil
}

func (s Facade) Blacklist(ctx context.Context) ([]string, error) {
	if s.BlacklistFn != nil {
		return s.BlacklistFn(ctx)
	}
	return nil, nil
}

// ApplyBlacklist reports a successful change unless overridden.
func (s Facade) ApplyBlacklist(ctx context.Context, number, intent string) (usecase.BlacklistResult, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, number, intent)
	}
	parsed, err := model.ParseBlacklistIntent(intent)
	if err != nil {
		return usecase.BlacklistResult{}, err
	}
	return usecase.BlacklistResult{Number: number, Intent: parsed, Execution: json.RawMessage(`{"ok":true}`)}, nil
}

func (s Facade) Statistics(ctx context.Context) (model.Statistics, error) {
	if s.StatisticsFn != nil {
		return s.StatisticsFn(ctx)
	}
	return model.Statistics{}, nil
}

func (s Facade) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// ListUsers delegates to ListUsersFn or returns one account.
func (s Facade) ListUsers(ctx context.Context) ([]model.User, error) {
	if s.ListUsersFn != nil {
		return s.ListUsersFn(ctx)
	}
	return []model.User{{ID: 1, Email: "staff@example.com", PasswordHash: "secret-hash", SecondaryCode: 1234}}, nil
}

// Subscribe delegates to SubscribeFn or accepts the address.
func (s Facade) Subscribe(ctx context.Context, email string) error {
	if s.SubscribeFn != nil {
		return s.SubscribeFn(ctx, email)
	}
	return nil
}
