package dto

import "time"

// ExpenseFilters selects expenses in the half-open window [From, To).
type ExpenseFilters struct {
	StoreID string
	From    time.Time
	To      time.Time
}
