package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/polkiloo/orderdesk/internal/config"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/metrics"
	testhelpers "github.com/polkiloo/orderdesk/internal/test"
)

func newBlacklistUseCase(store *testhelpers.BlacklistStoreStub, executor *testhelpers.ExecutorStub) *BlacklistUseCase {
	return NewBlacklistUseCase(store, executor, &config.Config{ExternalTimeout: time.Second}, metrics.New(), discardLogger())
}

func TestBlacklistApplyAddAndRemove(t *testing.T) {
	store := testhelpers.NewBlacklistStoreStub()
	executor := &testhelpers.ExecutorStub{}
	uc := newBlacklistUseCase(store, executor)
	ctx := context.Background()

	res, err := uc.Apply(ctx, " 555-0101 ", "ADD")
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if res.Number != "555-0101" || res.Intent != model.BlacklistAdd {
		t.Fatalf("unexpected result %+v", res)
	}
	if string(res.Execution) != `{"ok":true}` {
		t.Fatalf("unexpected execution reply %s", res.Execution)
	}

	numbers, _ := uc.List(ctx)
	if len(numbers) != 1 || numbers[0] != "555-0101" {
		t.Fatalf("unexpected blacklist %v", numbers)
	}

	if _, err := uc.Apply(ctx, "555-0101", "remove"); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	numbers, _ = uc.List(ctx)
	if len(numbers) != 0 {
		t.Fatalf("expected empty blacklist, got %v", numbers)
	}

	calls := executor.Calls()
	if len(calls) != 2 || calls[0].Intent != model.BlacklistAdd || calls[1].Intent != model.BlacklistRemove {
		t.Fatalf("unexpected executions %+v", calls)
	}
}

func TestBlacklistApplyValidation(t *testing.T) {
	executor := &testhelpers.ExecutorStub{}
	uc := newBlacklistUseCase(testhelpers.NewBlacklistStoreStub(), executor)

	if _, err := uc.Apply(context.Background(), "", "add"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Apply(context.Background(), "555", "block"); !errors.Is(err, domainErrors.ErrInvalidIntent) {
		t.Fatalf("expected invalid intent, got %v", err)
	}
	if len(executor.Calls()) != 0 {
		t.Fatal("executor must not be called for invalid input")
	}
}

func TestBlacklistApplyExecutionFailureKeepsLocalChange(t *testing.T) {
	store := testhelpers.NewBlacklistStoreStub()
	executor := &testhelpers.ExecutorStub{ExecuteFn: func(context.Context, string, model.BlacklistIntent) (json.RawMessage, error) {
		return nil, errors.New("executor down")
	}}
	uc := newBlacklistUseCase(store, executor)

	res, err := uc.Apply(context.Background(), "555-0101", "add")
	if !errors.Is(err, domainErrors.ErrExecutionSync) {
		t.Fatalf("expected execution sync error, got %v", err)
	}
	if res.Number != "555-0101" {
		t.Fatalf("expected partial result, got %+v", res)
	}
	if ok, _ := store.Contains(context.Background(), "555-0101"); !ok {
		t.Fatal("local change must be kept")
	}
}

func TestBlacklistApplyStoreFailureSkipsExecution(t *testing.T) {
	store := testhelpers.NewBlacklistStoreStub()
	store.AddFn = func(context.Context, string) error { return errors.New("db down") }
	executor := &testhelpers.ExecutorStub{}
	uc := newBlacklistUseCase(store, executor)

	if _, err := uc.Apply(context.Background(), "555", "add"); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if len(executor.Calls()) != 0 {
		t.Fatal("executor must not be called when store fails")
	}
}
