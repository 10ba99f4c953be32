package tracing

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
)

// Module builds the tracer provider and flushes it on stop.
var Module = fx.Options(
	fx.Provide(newProvider),
	fx.Invoke(registerLifecycle),
)

type providerParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newProvider(p providerParams) (*Provider, error) {
	return NewProvider(p.Ctx, p.Config.TracingEndpoint, p.Config.TracingSampleRate, p.Logger)
}

type lifecycle interface {
	Append(fx.Hook)
}

func registerLifecycle(lc fx.Lifecycle, provider *Provider) {
	appendHooks(lc, provider)
}

func appendHooks(lc lifecycle, provider *Provider) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
}
