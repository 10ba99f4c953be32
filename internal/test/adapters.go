package test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// NotifierStub records delivered notifications.
type NotifierStub struct {
	NotifyFn func(context.Context, model.Order) error

	mu   sync.Mutex
	sent []model.Order
}

func (s *NotifierStub) Notify(ctx context.Context, order model.Order) error {
	if s.NotifyFn != nil {
		if err := s.NotifyFn(ctx, order); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.sent = append(s.sent, order)
	s.mu.Unlock()
	return nil
}

// Sent returns orders passed to successful Notify calls.
func (s *NotifierStub) Sent() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), s.sent...)
}

// ExecutorCall is one blacklist execution request.
type ExecutorCall struct {
	Number string
	Intent model.BlacklistIntent
}

// ExecutorStub records blacklist executions.
type ExecutorStub struct {
	ExecuteFn func(context.Context, string, model.BlacklistIntent) (json.RawMessage, error)

	mu    sync.Mutex
	calls []ExecutorCall
}

func (s *ExecutorStub) Execute(ctx context.Context, number string, intent model.BlacklistIntent) (json.RawMessage, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ExecutorCall{Number: number, Intent: intent})
	s.mu.Unlock()
	if s.ExecuteFn != nil {
		return s.ExecuteFn(ctx, number, intent)
	}
	return json.RawMessage(`{"ok":true}`), nil
}

// Calls returns recorded executions.
func (s *ExecutorStub) Calls() []ExecutorCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExecutorCall(nil), s.calls...)
}

// MailerStub records sent mails by kind.
type MailerStub struct {
	Err error

	mu    sync.Mutex
	Sent  []string
	Links []string
}

func (m *MailerStub) SendRecovery(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, "recovery:"+to)
	m.Links = append(m.Links, link)
	return m.Err
}

func (m *MailerStub) SendWelcome(_ context.Context, to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, "welcome:"+to)
	return m.Err
}

func (m *MailerStub) SendPasswordChanged(_ context.Context, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, "changed:"+to)
	return m.Err
}
