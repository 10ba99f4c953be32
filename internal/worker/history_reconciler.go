package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/metrics"
)

const runTimeout = 2 * time.Minute

// HistoryFacade exposes the subset of application functionality required by the worker.
type HistoryFacade interface {
	ActiveOrders(ctx context.Context) ([]model.Order, error)
	MirrorHistory(ctx context.Context, number string) (bool, error)
}

// RunResult counts the outcome of one reconciliation pass.
type RunResult struct {
	Mirrored int
	// Skipped counts orders that left active orders before their turn.
	Skipped int
	Failed  int
}

type outcome int

const (
	outcomeMirrored outcome = iota
	outcomeSkipped
	outcomeFailed
)

type job struct {
	number string
	result chan<- outcome
}

// HistoryReconciler periodically refreshes the history entry of every active
// order through a pool of workers, healing commits that stopped half way.
// Workers copy the record as stored when they run, not the listed snapshot.
type HistoryReconciler struct {
	facade   HistoryFacade
	schedule string
	workers  int
	metrics  *metrics.Metrics
	logger   *slog.Logger

	cron   *cron.Cron
	jobs   chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	runCtx context.Context
	mu     sync.Mutex
}

// NewHistoryReconciler validates schedule and constructs the reconciler.
func NewHistoryReconciler(facade HistoryFacade, schedule string, workers int, m *metrics.Metrics, logger *slog.Logger) (*HistoryReconciler, error) {
	if workers <= 0 {
		workers = 1
	}
	r := &HistoryReconciler{
		facade:   facade,
		schedule: schedule,
		workers:  workers,
		metrics:  m,
		logger:   logger,
		jobs:     make(chan job, workers),
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	r.cron = cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := r.cron.AddFunc(schedule, r.scheduled); err != nil {
		return nil, err
	}
	return r, nil
}

// Start launches the workers and the schedule.
func (r *HistoryReconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.runCtx = runCtx
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}
	r.cron.Start()
	r.logger.Info("history reconciler started", slog.String("schedule", r.schedule), slog.Int("workers", r.workers))
}

// Stop halts the schedule and waits for all workers to finish.
func (r *HistoryReconciler) Stop() {
	<-r.cron.Stop().Done()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// RunOnce mirrors every active order and waits for the pass to finish.
// Start must have been called.
func (r *HistoryReconciler) RunOnce(ctx context.Context) (RunResult, error) {
	orders, err := r.facade.ActiveOrders(ctx)
	if err != nil {
		r.logger.Error("list active orders for reconciliation failed", slog.String("error", err.Error()))
		return RunResult{}, err
	}

	results := make(chan outcome, len(orders))
	dispatched := 0
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return r.collect(ctx, results, dispatched), ctx.Err()
		case r.jobs <- job{number: order.Number, result: results}:
			dispatched++
		}
	}

	res := r.collect(ctx, results, dispatched)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	r.logger.Info("history reconciled",
		slog.Int("mirrored", res.Mirrored),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

// collect waits for n results. Jobs still pending when ctx ends count as failed.
func (r *HistoryReconciler) collect(ctx context.Context, results <-chan outcome, n int) RunResult {
	var res RunResult
	for i := 0; i < n; i++ {
		select {
		case o := <-results:
			switch o {
			case outcomeMirrored:
				res.Mirrored++
			case outcomeSkipped:
				res.Skipped++
			default:
				res.Failed++
			}
		case <-ctx.Done():
			res.Failed += n - i
			return res
		}
	}
	return res
}

func (r *HistoryReconciler) scheduled() {
	r.mu.Lock()
	parent := r.runCtx
	r.mu.Unlock()
	if parent == nil || parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, runTimeout)
	defer cancel()
	_, _ = r.RunOnce(ctx)
}

func (r *HistoryReconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.jobs:
			j.result <- r.handleOrder(ctx, j.number)
		}
	}
}

func (r *HistoryReconciler) handleOrder(ctx context.Context, number string) outcome {
	mirrored, err := r.facade.MirrorHistory(ctx, number)
	if err != nil {
		r.metrics.Reconciled("failed")
		r.logger.Error("mirror history failed", slog.String("numeroOrden", number), slog.String("error", err.Error()))
		return outcomeFailed
	}
	if !mirrored {
		r.metrics.Reconciled("skipped")
		return outcomeSkipped
	}
	r.metrics.Reconciled("ok")
	return outcomeMirrored
}
