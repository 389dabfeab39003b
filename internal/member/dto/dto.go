package dto

import (
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/shopspring/decimal"
)

// MemberStats summarises a member's purchase history. VisitIntervalDays is
// nil until there are two orders.
type MemberStats struct {
	Total             decimal.Decimal `json:"total"`
	Count             int             `json:"count"`
	Average           decimal.Decimal `json:"average"`
	VisitIntervalDays *int            `json:"visit_interval_days"`
	Orders            []model.Order   `json:"orders"`
}
