package blacklist

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
)

// Module exposes the blacklist execution client to fx graph.
var Module = fx.Provide(newExecutor)

type executorParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newExecutor(p executorParams) (Executor, error) {
	return NewHTTPClient(p.Config.BlacklistEndpoint, p.Config.ExternalTimeout, p.Logger)
}
