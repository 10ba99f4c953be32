package repository

import (
	"context"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// OrderStore holds active orders, the shipped archive and the history ledger.
// Every method is a single-document operation; listings are sorted by
// creation time, newest first.
type OrderStore interface {
	ListActive(ctx context.Context) ([]model.Order, error)
	ListArchive(ctx context.Context) ([]model.Order, error)
	ListHistory(ctx context.Context) ([]model.Order, error)

	FindActiveByOrderNumber(ctx context.Context, number string) (*model.Order, error)
	InsertActive(ctx context.Context, order model.Order) error
	UpdateActiveStatus(ctx context.Context, number string, status model.OrderStatus, label string) error
	DeleteActive(ctx context.Context, number string) error

	UpsertHistory(ctx context.Context, order model.Order) error
	// MirrorActiveToHistory copies the stored active record for number into
	// history, reading and writing in one step. It reports false when the
	// order is no longer active.
	MirrorActiveToHistory(ctx context.Context, number string) (bool, error)

	// InsertArchive stores the record unless one with the same number exists.
	// It reports whether a row was written.
	InsertArchive(ctx context.Context, order model.Order) (bool, error)
	ListArchiveSince(ctx context.Context, since time.Time) ([]model.Order, error)

	AppendTransition(ctx context.Context, transition model.Transition) error
	ListTransitions(ctx context.Context, number string) ([]model.Transition, error)
}
