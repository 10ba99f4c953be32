package model

// DailySales counts shipped orders for one calendar day (YYYY-MM-DD).
type DailySales struct {
	Date  string
	Count int
}

// StatusCount counts history entries in one status.
type StatusCount struct {
	Status string
	Count  int
}

// ItemCount counts shipped orders of one item.
type ItemCount struct {
	Item  string
	Count int
}

// Statistics is computed on every read and never stored.
type Statistics struct {
	DailySales []DailySales
	ByStatus   []StatusCount
	TopItems   []ItemCount
}
