package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// Source lists the active orders, newest first.
type Source interface {
	ListActive(ctx context.Context) ([]model.Order, error)
}

// Gateway is the dashboard API used to apply staff decisions.
type Gateway interface {
	Source
	Commit(ctx context.Context, number string, status model.OrderStatus) (dto.TransitionResponse, error)
	Delete(ctx context.Context, number string) error
}

// Snapshot is a read-only copy of the feed state.
type Snapshot struct {
	Entries []Entry
	// Alert is raised for a while after new orders arrive.
	Alert   bool
	Arrived []string
	Notice  string
	// Stopped is set after the dashboard rejected the session.
	Stopped bool
	Updated time.Time
}

// Feed keeps the staff view of active orders and reconciles it with the
// dashboard on every Refresh.
type Feed struct {
	gateway       Gateway
	alertDuration time.Duration
	logger        *slog.Logger
	now           func() time.Time

	mu         sync.Mutex
	entries    []Entry
	primed     bool
	arrived    []string
	alertUntil time.Time
	notice     string
	stopped    bool
	updated    time.Time
}

// New creates an empty feed.
func New(gateway Gateway, alertDuration time.Duration, logger *slog.Logger) *Feed {
	if alertDuration <= 0 {
		alertDuration = 3 * time.Second
	}
	return &Feed{
		gateway:       gateway,
		alertDuration: alertDuration,
		logger:        logger,
		now:           time.Now,
	}
}

// Refresh fetches active orders and merges them into the view. A failed
// fetch keeps the previous view and sets a notice; an unauthenticated
// response also stops the feed until Resume is called.
func (f *Feed) Refresh(ctx context.Context) error {
	if f.Stopped() {
		return nil
	}

	orders, err := f.gateway.ListActive(ctx)
	if err != nil {
		f.fail(err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next, arrived := Merge(f.entries, orders)
	f.entries = next
	f.updated = f.now()
	f.notice = ""
	if f.primed && len(arrived) > 0 {
		f.arrived = arrived
		f.alertUntil = f.updated.Add(f.alertDuration)
		f.logger.Info("new orders arrived", slog.Any("numbers", arrived))
	}
	f.primed = true
	return nil
}

// Propose sets the pending status of number.
func (f *Feed) Propose(number string, status model.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = Propose(f.entries, number, status)
}

// Acknowledge marks number as seen.
func (f *Feed) Acknowledge(number string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = Acknowledge(f.entries, number)
}

// ToggleSelected flips the selection of number.
func (f *Feed) ToggleSelected(number string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = ToggleSelected(f.entries, number)
}

// Commit sends the pending status of number to the dashboard. An entry
// without a pending status is left alone. The pending status is cleared
// only when the dashboard confirmed the whole transition.
func (f *Feed) Commit(ctx context.Context, number string) error {
	f.mu.Lock()
	entry, ok := Find(f.entries, number)
	f.mu.Unlock()
	if !ok || entry.PendingStatus == "" {
		return nil
	}

	status := entry.PendingStatus
	res, err := f.gateway.Commit(ctx, number, status)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotification) {
			f.setNotice("estado guardado, notificación fallida: " + number)
			return err
		}
		f.fail(err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if res.Archived {
		f.entries = Remove(f.entries, number)
	} else {
		f.entries = MarkCommitted(f.entries, number, status)
	}
	return nil
}

// Delete archives number through the dashboard and drops it from the view.
func (f *Feed) Delete(ctx context.Context, number string) error {
	if err := f.gateway.Delete(ctx, number); err != nil {
		f.fail(err)
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = Remove(f.entries, number)
	return nil
}

// Resume restarts a stopped feed, e.g. after a new token was supplied.
func (f *Feed) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = false
	f.notice = ""
}

// Stopped reports whether polling is suspended.
func (f *Feed) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// Snapshot copies the current state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{
		Entries: append([]Entry(nil), f.entries...),
		Notice:  f.notice,
		Stopped: f.stopped,
		Updated: f.updated,
	}
	if f.now().Before(f.alertUntil) {
		s.Alert = true
		s.Arrived = append([]string(nil), f.arrived...)
	}
	return s
}

func (f *Feed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if errors.Is(err, domainErrors.ErrUnauthenticated) {
		f.stopped = true
		f.notice = "sesión expirada, inicie sesión de nuevo"
		f.logger.Warn("feed stopped", slog.String("error", err.Error()))
		return
	}
	f.notice = "no se pudo actualizar: " + err.Error()
	f.logger.Error("feed refresh failed", slog.String("error", err.Error()))
}

func (f *Feed) setNotice(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notice = msg
}
