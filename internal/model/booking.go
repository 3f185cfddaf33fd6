package model

import "time"

// Booking statuses.  A booking is created PENDING and moves to PAID
// exactly once when the payment provider confirms the payment.  FREE
// bookings are issued via the loyalty path and never enter the payment
// flow.  CANCELLED bookings do not count against facility capacity.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusFree      = "FREE"
	StatusCancelled = "CANCELLED"
)

// Booking records a reservation of a facility time slot or of seats at
// an event.  FacilityID is always set; EventID is non-nil only for
// event-backed bookings, which use the event's declared capacity
// instead of interval availability.  Times are minutes from midnight
// on Date (a UTC calendar date), so the overlap test and duration
// pricing need no timezone handling.
//
// The redemption token (Token) is an opaque encrypted blob minted
// immediately after the booking is persisted.  It is a snapshot, not a
// capability: the authoritative used/unused state lives in IsUsed and
// UsedAt, which transition false→true at most once.
type Booking struct {
	ID              uint64     `json:"id"`
	FacilityID      uint64     `json:"facility_id"`
	EventID         *uint64    `json:"event_id,omitempty"`
	UserID          uint64     `json:"user_id"`
	Date            time.Time  `json:"date"`
	StartMinute     int        `json:"start_minute"`
	EndMinute       int        `json:"end_minute"`
	TotalCostCents  int64      `json:"total_cost_cents"`
	DiscountCents   int64      `json:"discount_cents"`
	FinalPriceCents int64      `json:"final_price_cents"`
	Status          string     `json:"status"`
	IsFreeBooking   bool       `json:"is_free_booking"`
	Token           *string    `json:"token,omitempty"`
	IsUsed          bool       `json:"is_used"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	Attendees       []Attendee `json:"attendees,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Attendee is owned exclusively by its booking and never shared.
// ClientType is an open vocabulary ("Pensioner", "Student", "Teenager",
// "Child", ...); unrecognized values simply earn no discount.
type Attendee struct {
	ID         uint64 `json:"id"`
	BookingID  uint64 `json:"booking_id"`
	Name       string `json:"name"`
	ClientType string `json:"client_type"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}
