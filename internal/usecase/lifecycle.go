package usecase

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/polkiloo/orderdesk/internal/adapter/notify"
	"github.com/polkiloo/orderdesk/internal/config"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/metrics"
)

var tracer = otel.Tracer("github.com/polkiloo/orderdesk/internal/usecase")

var strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)

const (
	defaultCombo  = "Sin combo"
	defaultExtras = "Sin extras"
	timeOfDay     = "15:04"
)

// CommitResult describes what a committed transition did beyond persisting
// the status.
type CommitResult struct {
	Order model.Order
	// Notified is true when the customer endpoint accepted the change.
	Notified bool
	// Suppressed is true when the phone is blacklisted and no call was made.
	Suppressed bool
	Archived   bool
}

// LifecycleUseCase owns every write to the order store.
type LifecycleUseCase struct {
	orders    repository.OrderStore
	blacklist repository.BlacklistStore
	notifier  notify.Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(
	orders repository.OrderStore,
	blacklist repository.BlacklistStore,
	notifier notify.Notifier,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *LifecycleUseCase {
	timeout := cfg.ExternalTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LifecycleUseCase{
		orders:    orders,
		blacklist: blacklist,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		timeout:   timeout,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateOrder validates and stores a new pending order in active orders and
// history.
func (u *LifecycleUseCase) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	order.Number = strings.TrimSpace(order.Number)
	if order.Number == "" {
		return model.Order{}, domainErrors.NewValidationError("numeroOrden", "is required")
	}

	order.Item = sanitize(order.Item)
	if order.Item == "" {
		return model.Order{}, domainErrors.NewValidationError("pedido", "is required")
	}
	order.Combo = sanitize(order.Combo)
	order.Extras = sanitize(order.Extras)
	order.CustomerName = sanitize(order.CustomerName)
	order.Phone = strings.TrimSpace(order.Phone)
	order.Address = sanitize(order.Address)
	order.Reference = sanitize(order.Reference)
	order.Payment = sanitize(order.Payment)
	order.RemovedAt = nil

	status := model.OrderStatusPending
	if raw := strings.TrimSpace(string(order.Status)); raw != "" {
		parsed, err := model.ParseOrderStatus(raw)
		if err != nil {
			return model.Order{}, err
		}
		status = parsed
	}
	order.Status = status
	order.StatusLabel = status.Label()

	now := u.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.TimeOfDay == "" {
		order.TimeOfDay = order.CreatedAt.Format(timeOfDay)
	}

	ctx, span := tracer.Start(ctx, "lifecycle.create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	if err := u.step(ctx, func(ctx context.Context) error { return u.orders.InsertActive(ctx, order) }); err != nil {
		fail(span, err)
		return model.Order{}, domainErrors.Persistence("insert active order", err)
	}

	if err := u.step(ctx, func(ctx context.Context) error { return u.orders.UpsertHistory(ctx, order) }); err != nil {
		fail(span, err)
		return model.Order{}, domainErrors.Persistence("upsert history", err)
	}

	u.appendTransition(ctx, order.Number, "", status)

	u.logger.Info("order created", slog.String("numeroOrden", order.Number))
	return order, nil
}

// CommitTransition applies a staff-chosen status to an active order: the
// active record and history are updated, the customer is notified, and a
// terminal status archives the order once the notification went through.
func (u *LifecycleUseCase) CommitTransition(ctx context.Context, number, rawStatus string) (CommitResult, error) {
	status, err := model.ParseOrderStatus(rawStatus)
	if err != nil {
		return CommitResult{}, err
	}

	ctx, span := tracer.Start(ctx, "lifecycle.commit", trace.WithAttributes(
		attribute.String("order.number", number),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	var current *model.Order
	if err := u.step(ctx, func(ctx context.Context) error {
		var err error
		current, err = u.orders.FindActiveByOrderNumber(ctx, number)
		return err
	}); err != nil {
		fail(span, err)
		u.metrics.Commit(string(status), outcome(err))
		return CommitResult{}, domainErrors.Persistence("find active order", err)
	}

	label := status.Label()
	if err := u.step(ctx, func(ctx context.Context) error {
		return u.orders.UpdateActiveStatus(ctx, number, status, label)
	}); err != nil {
		fail(span, err)
		u.metrics.Commit(string(status), outcome(err))
		return CommitResult{}, domainErrors.Persistence("update active status", err)
	}

	updated := *current
	updated.Status = status
	updated.StatusLabel = label
	result := CommitResult{Order: updated}

	if err := u.step(ctx, func(ctx context.Context) error { return u.orders.UpsertHistory(ctx, updated) }); err != nil {
		fail(span, err)
		u.metrics.Commit(string(status), outcome(err))
		return result, domainErrors.Persistence("upsert history", err)
	}

	u.appendTransition(ctx, number, current.Status, status)

	suppressed, err := u.deliver(ctx, updated)
	if err != nil {
		fail(span, err)
		u.metrics.Commit(string(status), "notification_failed")
		return result, err
	}
	result.Notified = !suppressed
	result.Suppressed = suppressed

	if status.IsTerminal() {
		if err := u.archive(ctx, updated); err != nil {
			fail(span, err)
			u.metrics.Commit(string(status), "archive_failed")
			return result, err
		}
		result.Archived = true
	}

	u.metrics.Commit(string(status), "ok")
	u.logger.Info("transition committed",
		slog.String("numeroOrden", number),
		slog.String("from", string(current.Status)),
		slog.String("estado", string(status)),
		slog.Bool("archived", result.Archived),
	)
	return result, nil
}

// Archive copies the order into the shipped archive and removes it from
// active orders. It is idempotent by order number.
func (u *LifecycleUseCase) Archive(ctx context.Context, order model.Order) error {
	ctx, span := tracer.Start(ctx, "lifecycle.archive", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	if err := u.archive(ctx, order); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

// DeleteOrder archives an active order regardless of its status.
func (u *LifecycleUseCase) DeleteOrder(ctx context.Context, number string) error {
	ctx, span := tracer.Start(ctx, "lifecycle.delete", trace.WithAttributes(attribute.String("order.number", number)))
	defer span.End()

	var current *model.Order
	if err := u.step(ctx, func(ctx context.Context) error {
		var err error
		current, err = u.orders.FindActiveByOrderNumber(ctx, number)
		return err
	}); err != nil {
		fail(span, err)
		return domainErrors.Persistence("find active order", err)
	}

	if err := u.archive(ctx, *current); err != nil {
		fail(span, err)
		return err
	}

	u.logger.Info("order removed", slog.String("numeroOrden", number))
	return nil
}

// ListActive returns active orders, newest first.
func (u *LifecycleUseCase) ListActive(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.ListActive(ctx)
	return orders, domainErrors.Persistence("list active orders", err)
}

// ListArchive returns archived orders, newest first.
func (u *LifecycleUseCase) ListArchive(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.ListArchive(ctx)
	return orders, domainErrors.Persistence("list archive", err)
}

// ListHistory returns the history ledger with display defaults filled in.
func (u *LifecycleUseCase) ListHistory(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.ListHistory(ctx)
	if err != nil {
		return nil, domainErrors.Persistence("list history", err)
	}
	for i := range orders {
		if orders[i].Combo == "" {
			orders[i].Combo = defaultCombo
		}
		if orders[i].Extras == "" {
			orders[i].Extras = defaultExtras
		}
		if orders[i].Status == "" {
			orders[i].Status = model.OrderStatusPending
		}
	}
	return orders, nil
}

// ListTransitions returns the transition log of one order, oldest first.
func (u *LifecycleUseCase) ListTransitions(ctx context.Context, number string) ([]model.Transition, error) {
	items, err := u.orders.ListTransitions(ctx, number)
	return items, domainErrors.Persistence("list transitions", err)
}

// deliver notifies the customer unless the phone is blacklisted. It reports
// whether the call was suppressed.
func (u *LifecycleUseCase) deliver(ctx context.Context, order model.Order) (bool, error) {
	if order.Phone != "" {
		var blocked bool
		err := u.step(ctx, func(ctx context.Context) error {
			var err error
			blocked, err = u.blacklist.Contains(ctx, order.Phone)
			return err
		})
		if err != nil {
			u.logger.Warn("blacklist lookup failed", slog.String("numeroOrden", order.Number), slog.String("error", err.Error()))
		}
		if blocked {
			u.metrics.Notification("suppressed")
			u.logger.Info("notification suppressed", slog.String("numeroOrden", order.Number))
			return true, nil
		}
	}

	if err := u.step(ctx, func(ctx context.Context) error { return u.notifier.Notify(ctx, order) }); err != nil {
		u.metrics.Notification("failed")
		u.logger.Error("notification failed",
			slog.String("numeroOrden", order.Number),
			slog.String("estado", string(order.Status)),
			slog.String("error", err.Error()),
		)
		return false, &domainErrors.NotificationError{OrderNumber: order.Number, Status: string(order.Status), Err: err}
	}

	u.metrics.Notification("delivered")
	return false, nil
}

func (u *LifecycleUseCase) archive(ctx context.Context, order model.Order) error {
	now := u.now()
	record := order
	record.CreatedAt = now
	record.TimeOfDay = now.Format(timeOfDay)
	record.RemovedAt = &now

	var inserted bool
	if err := u.step(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = u.orders.InsertArchive(ctx, record)
		return err
	}); err != nil {
		u.metrics.Archive("insert_failed")
		return &domainErrors.ArchiveError{Stage: domainErrors.ArchiveStageInsert, OrderNumber: order.Number, Err: err}
	}
	if !inserted {
		u.logger.Info("archive record already present", slog.String("numeroOrden", order.Number))
	}

	err := u.step(ctx, func(ctx context.Context) error { return u.orders.DeleteActive(ctx, order.Number) })
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		u.metrics.Archive("delete_failed")
		return &domainErrors.ArchiveError{Stage: domainErrors.ArchiveStageDelete, OrderNumber: order.Number, Err: err}
	}

	if inserted {
		u.metrics.Archive("inserted")
	} else {
		u.metrics.Archive("skipped")
	}
	return nil
}

func (u *LifecycleUseCase) appendTransition(ctx context.Context, number string, from, to model.OrderStatus) {
	t := model.Transition{
		ID:          u.newID(),
		OrderNumber: number,
		From:        from,
		To:          to,
		Label:       to.Label(),
		At:          u.now(),
	}
	if err := u.step(ctx, func(ctx context.Context) error { return u.orders.AppendTransition(ctx, t) }); err != nil {
		u.logger.Warn("append transition failed", slog.String("numeroOrden", number), slog.String("error", err.Error()))
	}
}

// step bounds one store or network call by the configured timeout.
func (u *LifecycleUseCase) step(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return fn(ctx)
}

func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func outcome(err error) string {
	if errors.Is(err, domainErrors.ErrNotFound) {
		return "not_found"
	}
	return "error"
}

// MirrorHistory copies the stored active record of number into the history
// ledger. It reports false when the order has left active orders, in which
// case history already holds its final status and is not touched.
func (u *LifecycleUseCase) MirrorHistory(ctx context.Context, number string) (bool, error) {
	var mirrored bool
	err := u.step(ctx, func(ctx context.Context) error {
		var err error
		mirrored, err = u.orders.MirrorActiveToHistory(ctx, number)
		return err
	})
	if err != nil {
		return false, domainErrors.Persistence("mirror history", err)
	}
	return mirrored, nil
}
