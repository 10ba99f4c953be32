package notify

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Deduper remembers, per order number, the last status the customer was told
// about and suppresses a notification that would repeat it within ttl. A
// status the customer has not been told last always goes out. Only delivered
// notifications are remembered, so a failed one is attempted again on retry.
type Deduper struct {
	next   Notifier
	sent   *gocache.Cache
	logger *slog.Logger
}

// NewDeduper wraps next.
func NewDeduper(next Notifier, ttl time.Duration, logger *slog.Logger) *Deduper {
	return &Deduper{
		next:   next,
		sent:   gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (d *Deduper) Notify(ctx context.Context, order model.Order) error {
	if last, ok := d.sent.Get(order.Number); ok && last.(model.OrderStatus) == order.Status {
		d.logger.Info("notification already delivered",
			slog.String("numeroOrden", order.Number),
			slog.String("estado", string(order.Status)),
		)
		return nil
	}

	if err := d.next.Notify(ctx, order); err != nil {
		return err
	}

	d.sent.SetDefault(order.Number, order.Status)
	return nil
}
