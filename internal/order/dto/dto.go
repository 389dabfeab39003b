package dto

import "time"

// OrderFilters selects orders by store, member and a half-open creation
// window [From, To). Zero values leave a field unfiltered.
type OrderFilters struct {
	StoreID  string
	MemberID string
	From     time.Time
	To       time.Time
}
