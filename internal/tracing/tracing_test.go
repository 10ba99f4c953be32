package tracing

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewProviderDisabledWithoutEndpoint(t *testing.T) {
	p, err := NewProvider(context.Background(), "", 1, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Enabled() {
		t.Fatal("expected provider to be disabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestNewProviderEnabledWithEndpoint(t *testing.T) {
	p, err := NewProvider(context.Background(), "127.0.0.1:4318", 0.5, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Enabled() {
		t.Fatal("expected provider to be enabled")
	}

	var recorder test.LifecycleRecorder
	appendHooks(&recorder, p)
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook, got %d", len(recorder.Hooks))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = recorder.Hooks[0].OnStop(ctx)
}

func TestNewProviderUsesConfig(t *testing.T) {
	p, err := newProvider(providerParams{
		Ctx:    context.Background(),
		Config: &config.Config{},
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Enabled() {
		t.Fatal("expected disabled provider")
	}
}

func TestWrapHandlerServesRequests(t *testing.T) {
	h := WrapHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected wrapped handler response, got %d", rec.Code)
	}
}
