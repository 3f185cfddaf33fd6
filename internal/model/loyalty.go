package model

import "time"

// LoyaltyAccount tracks the point balance for one user.  Accounts are
// created lazily on the first earning event.  Points never go negative:
// debits are conditional updates that refuse to underflow.
type LoyaltyAccount struct {
	UserID    uint64    `json:"user_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Points awarded per booking and the cost of a free booking.
const (
	LoyaltyEarnPoints     = 10
	FreeBookingPointsCost = 100
)
