package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/orderdesk/internal/adapter/blacklist"
	"github.com/polkiloo/orderdesk/internal/config"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/metrics"
)

// BlacklistResult is what Apply did for one number.
type BlacklistResult struct {
	Number string
	Intent model.BlacklistIntent
	// Execution is the raw reply of the execution endpoint.
	Execution json.RawMessage
}

// BlacklistUseCase maintains the suppressed phone numbers and mirrors every
// change to the execution endpoint.
type BlacklistUseCase struct {
	store    repository.BlacklistStore
	executor blacklist.Executor
	metrics  *metrics.Metrics
	logger   *slog.Logger
	timeout  time.Duration
}

// NewBlacklistUseCase constructs BlacklistUseCase.
func NewBlacklistUseCase(
	store repository.BlacklistStore,
	executor blacklist.Executor,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BlacklistUseCase {
	timeout := cfg.ExternalTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BlacklistUseCase{store: store, executor: executor, metrics: m, logger: logger, timeout: timeout}
}

// List returns every blacklisted number.
func (u *BlacklistUseCase) List(ctx context.Context) ([]string, error) {
	numbers, err := u.store.List(ctx)
	return numbers, domainErrors.Persistence("list blacklist", err)
}

// Apply adds or removes number. The local change is kept even when the
// execution endpoint fails; that case returns an ExecutionSyncError
// alongside the result.
func (u *BlacklistUseCase) Apply(ctx context.Context, number, rawIntent string) (BlacklistResult, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return BlacklistResult{}, domainErrors.NewValidationError("number", "is required")
	}
	intent, err := model.ParseBlacklistIntent(rawIntent)
	if err != nil {
		return BlacklistResult{}, err
	}

	ctx, span := tracer.Start(ctx, "blacklist.apply")
	defer span.End()

	storeCtx, cancel := context.WithTimeout(ctx, u.timeout)
	if intent == model.BlacklistAdd {
		err = u.store.Add(storeCtx, number)
	} else {
		err = u.store.Remove(storeCtx, number)
	}
	cancel()
	if err != nil {
		fail(span, err)
		u.metrics.Blacklist(string(intent), "store_failed")
		return BlacklistResult{}, domainErrors.Persistence("update blacklist", err)
	}

	result := BlacklistResult{Number: number, Intent: intent}

	execCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	reply, err := u.executor.Execute(execCtx, number, intent)
	if err != nil {
		fail(span, err)
		u.metrics.Blacklist(string(intent), "execution_failed")
		u.logger.Error("blacklist execution failed",
			slog.String("number", number),
			slog.String("intent", string(intent)),
			slog.String("error", err.Error()),
		)
		return result, &domainErrors.ExecutionSyncError{Number: number, Intent: string(intent), Err: err}
	}
	result.Execution = reply

	u.metrics.Blacklist(string(intent), "ok")
	u.logger.Info("blacklist updated", slog.String("number", number), slog.String("intent", string(intent)))
	return result, nil
}
