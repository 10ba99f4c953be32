package usecase

import (
	"context"
	"sort"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

const (
	salesWindowDays = 7
	topItemsLimit   = 5
	dayLayout       = "2006-01-02"
)

// StatisticsUseCase computes read-only rollups over the archive and history.
type StatisticsUseCase struct {
	orders repository.OrderStore
	now    func() time.Time
}

// NewStatisticsUseCase constructs StatisticsUseCase.
func NewStatisticsUseCase(orders repository.OrderStore) *StatisticsUseCase {
	return &StatisticsUseCase{orders: orders, now: time.Now}
}

// Statistics returns shipped orders per day for the last seven days,
// history entries per status, and the five most shipped items.
func (u *StatisticsUseCase) Statistics(ctx context.Context) (model.Statistics, error) {
	now := u.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(salesWindowDays - 1))

	recent, err := u.orders.ListArchiveSince(ctx, since)
	if err != nil {
		return model.Statistics{}, domainErrors.Persistence("list archive", err)
	}
	archive, err := u.orders.ListArchive(ctx)
	if err != nil {
		return model.Statistics{}, domainErrors.Persistence("list archive", err)
	}
	history, err := u.orders.ListHistory(ctx)
	if err != nil {
		return model.Statistics{}, domainErrors.Persistence("list history", err)
	}

	return model.Statistics{
		DailySales: dailySales(recent),
		ByStatus:   byStatus(history),
		TopItems:   topItems(archive),
	}, nil
}

func dailySales(orders []model.Order) []model.DailySales {
	counts := map[string]int{}
	for _, o := range orders {
		if o.Status != model.OrderStatusShipped {
			continue
		}
		counts[o.CreatedAt.UTC().Format(dayLayout)]++
	}

	out := make([]model.DailySales, 0, len(counts))
	for day, n := range counts {
		out = append(out, model.DailySales{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func byStatus(orders []model.Order) []model.StatusCount {
	counts := map[string]int{}
	for _, o := range orders {
		key := string(o.Status)
		if key == "" {
			key = model.NoStatusLabel
		}
		counts[key]++
	}

	out := make([]model.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, model.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

func topItems(orders []model.Order) []model.ItemCount {
	counts := map[string]int{}
	for _, o := range orders {
		if o.Status != model.OrderStatusShipped {
			continue
		}
		counts[o.Item]++
	}

	out := make([]model.ItemCount, 0, len(counts))
	for item, n := range counts {
		out = append(out, model.ItemCount{Item: item, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Item < out[j].Item
	})
	if len(out) > topItemsLimit {
		out = out[:topItemsLimit]
	}
	return out
}
