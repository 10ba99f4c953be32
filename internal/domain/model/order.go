package model

import "time"

// Order is a customer order as held in active orders, the shipped archive
// and the history ledger.
type Order struct {
	Number       string
	CreatedAt    time.Time
	TimeOfDay    string
	Item         string
	Combo        string
	Extras       string
	CustomerName string
	Phone        string
	Address      string
	Reference    string
	Payment      string
	Status       OrderStatus
	// StatusLabel keeps the label staff chose, for display.
	StatusLabel string
	// RemovedAt is set only on archive records.
	RemovedAt *time.Time
}

// Transition is one applied status change in the append-only log.
type Transition struct {
	ID          string
	OrderNumber string
	From        OrderStatus
	To          OrderStatus
	Label       string
	At          time.Time
}
