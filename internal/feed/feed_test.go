package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

type commitCall struct {
	Number string
	Status model.OrderStatus
}

type gatewayStub struct {
	mu        sync.Mutex
	orders    []model.Order
	listErr   error
	listCalls int
	commitFn  func(string, model.OrderStatus) (dto.TransitionResponse, error)
	commits   []commitCall
	deleteErr error
	deleted   []string
}

func (g *gatewayStub) ListActive(context.Context) ([]model.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]model.Order(nil), g.orders...), nil
}

func (g *gatewayStub) Commit(_ context.Context, number string, status model.OrderStatus) (dto.TransitionResponse, error) {
	g.mu.Lock()
	g.commits = append(g.commits, commitCall{Number: number, Status: status})
	g.mu.Unlock()
	if g.commitFn != nil {
		return g.commitFn(number, status)
	}
	return dto.TransitionResponse{Number: number, Status: string(status), Notified: true}, nil
}

func (g *gatewayStub) Delete(_ context.Context, number string) error {
	g.deleted = append(g.deleted, number)
	return g.deleteErr
}

func orders(numbers ...string) []model.Order {
	out := make([]model.Order, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, model.Order{Number: n, Status: model.OrderStatusPending})
	}
	return out
}

func newTestFeed(g *gatewayStub) (*Feed, *time.Time) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	f := New(g, 3*time.Second, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	f.now = func() time.Time { return now }
	return f, &now
}

func TestMergeCarriesClientFlags(t *testing.T) {
	prev := []Entry{
		{Order: model.Order{Number: "A1"}, Acknowledged: true, Selected: true, PendingStatus: model.OrderStatusShipped},
		{Order: model.Order{Number: "GONE"}, Acknowledged: true},
	}
	fresh := []model.Order{
		{Number: "B2", Status: model.OrderStatusPending},
		{Number: "A1", Status: model.OrderStatusProcessing},
	}

	next, arrived := Merge(prev, fresh)

	if len(next) != 2 || next[0].Order.Number != "B2" || next[1].Order.Number != "A1" {
		t.Fatalf("expected fresh order kept, got %+v", next)
	}
	a1 := next[1]
	if !a1.Acknowledged || !a1.Selected || a1.PendingStatus != model.OrderStatusShipped {
		t.Fatalf("flags not carried: %+v", a1)
	}
	if a1.Order.Status != model.OrderStatusProcessing {
		t.Fatalf("expected server status to win, got %q", a1.Order.Status)
	}
	if next[0].Acknowledged || next[0].Selected {
		t.Fatalf("new entry must start unflagged: %+v", next[0])
	}
	if len(arrived) != 1 || arrived[0] != "B2" {
		t.Fatalf("unexpected arrivals %v", arrived)
	}
}

func TestProposeTouchesOnlyTarget(t *testing.T) {
	view := []Entry{{Order: model.Order{Number: "A1"}}, {Order: model.Order{Number: "A2"}}}

	once := Propose(view, "A1", model.OrderStatusReadyToShip)
	twice := Propose(once, "A1", model.OrderStatusReadyToShip)

	if view[0].PendingStatus != "" {
		t.Fatal("input view must not be mutated")
	}
	if twice[0].PendingStatus != model.OrderStatusReadyToShip || !twice[0].Acknowledged {
		t.Fatalf("unexpected entry %+v", twice[0])
	}
	if twice[1].PendingStatus != "" || twice[1].Acknowledged {
		t.Fatalf("other entry changed: %+v", twice[1])
	}
	if once[0] != twice[0] {
		t.Fatal("re-proposing must be idempotent")
	}
}

func TestRefreshAlertsOnNewOrdersAndClears(t *testing.T) {
	g := &gatewayStub{orders: orders("A1")}
	f, now := newTestFeed(g)
	ctx := context.Background()

	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if f.Snapshot().Alert {
		t.Fatal("initial load must not alert")
	}

	f.Acknowledge("A1")
	g.orders = orders("B2", "A1")
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	snap := f.Snapshot()
	if !snap.Alert || len(snap.Arrived) != 1 || snap.Arrived[0] != "B2" {
		t.Fatalf("expected alert for B2, got %+v", snap)
	}
	if e, _ := Find(snap.Entries, "A1"); !e.Acknowledged {
		t.Fatal("acknowledged flag lost on refresh")
	}

	*now = now.Add(3 * time.Second)
	if f.Snapshot().Alert {
		t.Fatal("alert must clear after display duration")
	}
}

func TestRefreshUnauthenticatedStopsFeed(t *testing.T) {
	g := &gatewayStub{orders: orders("A1")}
	f, _ := newTestFeed(g)
	ctx := context.Background()
	_ = f.Refresh(ctx)

	g.listErr = domainErrors.ErrUnauthenticated
	if err := f.Refresh(ctx); !errors.Is(err, domainErrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	snap := f.Snapshot()
	if !snap.Stopped || snap.Notice == "" {
		t.Fatalf("expected stopped feed with notice, got %+v", snap)
	}
	if len(snap.Entries) != 1 {
		t.Fatal("view must be kept after failure")
	}

	calls := g.listCalls
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("stopped refresh must be silent, got %v", err)
	}
	if g.listCalls != calls {
		t.Fatal("stopped feed must not poll")
	}

	g.listErr = nil
	f.Resume()
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("refresh after resume failed: %v", err)
	}
	if f.Snapshot().Stopped {
		t.Fatal("expected feed running after resume")
	}
}

func TestRefreshTransientErrorKeepsPolling(t *testing.T) {
	g := &gatewayStub{listErr: errors.New("connection refused")}
	f, _ := newTestFeed(g)

	if err := f.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	snap := f.Snapshot()
	if snap.Stopped || snap.Notice == "" {
		t.Fatalf("expected running feed with notice, got %+v", snap)
	}

	g.listErr = nil
	g.orders = orders("A1")
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if f.Snapshot().Notice != "" {
		t.Fatal("notice must clear after a good refresh")
	}
}

func TestCommitWithoutPendingIsNoop(t *testing.T) {
	g := &gatewayStub{orders: orders("A1")}
	f, _ := newTestFeed(g)
	_ = f.Refresh(context.Background())

	if err := f.Commit(context.Background(), "A1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.commits) != 0 {
		t.Fatal("no commit expected without pending status")
	}
}

func TestCommitClearsPendingOnSuccess(t *testing.T) {
	g := &gatewayStub{orders: orders("A1", "A2")}
	f, _ := newTestFeed(g)
	ctx := context.Background()
	_ = f.Refresh(ctx)

	f.Propose("A1", model.OrderStatusProcessing)
	if err := f.Commit(ctx, "A1"); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	e, _ := Find(f.Snapshot().Entries, "A1")
	if e.PendingStatus != "" || !e.Acknowledged || e.Order.Status != model.OrderStatusProcessing {
		t.Fatalf("unexpected entry after commit: %+v", e)
	}

	g.commitFn = func(number string, status model.OrderStatus) (dto.TransitionResponse, error) {
		return dto.TransitionResponse{Number: number, Status: string(status), Notified: true, Archived: true}, nil
	}
	f.Propose("A2", model.OrderStatusShipped)
	if err := f.Commit(ctx, "A2"); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if _, ok := Find(f.Snapshot().Entries, "A2"); ok {
		t.Fatal("archived order must leave the view")
	}
}

func TestCommitNotificationFailureKeepsPending(t *testing.T) {
	g := &gatewayStub{orders: orders("A1")}
	g.commitFn = func(number string, status model.OrderStatus) (dto.TransitionResponse, error) {
		return dto.TransitionResponse{}, &domainErrors.NotificationError{OrderNumber: number, Status: string(status), Err: errors.New("down")}
	}
	f, _ := newTestFeed(g)
	ctx := context.Background()
	_ = f.Refresh(ctx)

	f.Propose("A1", model.OrderStatusShipped)
	if err := f.Commit(ctx, "A1"); !errors.Is(err, domainErrors.ErrNotification) {
		t.Fatalf("expected notification error, got %v", err)
	}
	snap := f.Snapshot()
	e, _ := Find(snap.Entries, "A1")
	if e.PendingStatus != model.OrderStatusShipped {
		t.Fatal("pending status must survive a failed notification")
	}
	if snap.Notice == "" || snap.Stopped {
		t.Fatalf("expected notice without stopping, got %+v", snap)
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	g := &gatewayStub{orders: orders("A1")}
	f, _ := newTestFeed(g)
	_ = f.Refresh(context.Background())

	if err := f.Delete(context.Background(), "A1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.Snapshot().Entries) != 0 {
		t.Fatal("expected empty view")
	}

	g.deleteErr = domainErrors.ErrNotFound
	if err := f.Delete(context.Background(), "A1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
