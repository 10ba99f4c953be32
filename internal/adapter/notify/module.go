package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
)

// Module exposes the notification client to the fx graph.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	client, err := NewHTTPClient(p.Config.NotificationEndpoint, p.Config.ExternalTimeout, p.Logger)
	if err != nil {
		return nil, err
	}
	if p.Config.NotifyDedupeTTL <= 0 {
		return client, nil
	}
	return NewDeduper(client, p.Config.NotifyDedupeTTL, p.Logger), nil
}
