package feed

import "github.com/polkiloo/orderdesk/internal/domain/model"

// Entry is an active order together with the flags that only exist in the
// staff client.
type Entry struct {
	Order         model.Order
	Acknowledged  bool
	Selected      bool
	PendingStatus model.OrderStatus
}

// Merge rebuilds the view from a fresh fetch. Client flags are carried over
// from prev by order number; the returned numbers are those absent from prev.
// The fresh order is kept, so the server's sort order wins.
func Merge(prev []Entry, fresh []model.Order) ([]Entry, []string) {
	byNumber := make(map[string]Entry, len(prev))
	for _, e := range prev {
		byNumber[e.Order.Number] = e
	}

	next := make([]Entry, 0, len(fresh))
	var arrived []string
	for _, o := range fresh {
		old, ok := byNumber[o.Number]
		if !ok {
			arrived = append(arrived, o.Number)
		}
		next = append(next, Entry{
			Order:         o,
			Acknowledged:  old.Acknowledged,
			Selected:      old.Selected,
			PendingStatus: old.PendingStatus,
		})
	}
	return next, arrived
}

// Propose records status as the pending choice for number and marks it
// acknowledged. Other entries are untouched.
func Propose(view []Entry, number string, status model.OrderStatus) []Entry {
	return update(view, number, func(e *Entry) {
		e.PendingStatus = status
		e.Acknowledged = true
	})
}

// Acknowledge marks number as seen.
func Acknowledge(view []Entry, number string) []Entry {
	return update(view, number, func(e *Entry) { e.Acknowledged = true })
}

// ToggleSelected flips the selection flag of number.
func ToggleSelected(view []Entry, number string) []Entry {
	return update(view, number, func(e *Entry) { e.Selected = !e.Selected })
}

// MarkCommitted clears the pending status after a successful commit.
func MarkCommitted(view []Entry, number string, status model.OrderStatus) []Entry {
	return update(view, number, func(e *Entry) {
		e.PendingStatus = ""
		e.Acknowledged = true
		e.Order.Status = status
		e.Order.StatusLabel = status.Label()
	})
}

// Remove drops number from the view.
func Remove(view []Entry, number string) []Entry {
	next := make([]Entry, 0, len(view))
	for _, e := range view {
		if e.Order.Number != number {
			next = append(next, e)
		}
	}
	return next
}

// Find returns the entry for number.
func Find(view []Entry, number string) (Entry, bool) {
	for _, e := range view {
		if e.Order.Number == number {
			return e, true
		}
	}
	return Entry{}, false
}

func update(view []Entry, number string, fn func(*Entry)) []Entry {
	next := make([]Entry, len(view))
	copy(next, view)
	for i := range next {
		if next[i].Order.Number == number {
			fn(&next[i])
		}
	}
	return next
}
