// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer that move them.
package queue

// Queue names.  One durable queue per event type; the default exchange
// routes by queue name.
const (
	BookingCreatedQueue  = "booking.created"
	BookingPaidQueue     = "booking.paid"
	BookingRedeemedQueue = "booking.redeemed"
)

// BookingCreatedEvent is published when a booking is stored, whether
// pending payment or free.  It carries enough detail for downstream
// consumers to notify the customer without querying the database.
// EventID is a fresh UUID used by consumers to drop redelivered
// duplicates.
type BookingCreatedEvent struct {
	EventID         string `json:"event_id"`
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	UserEmail       string `json:"user_email"`
	FacilityID      uint64 `json:"facility_id"`
	FacilityName    string `json:"facility_name"`
	HostedEventID   uint64 `json:"hosted_event_id,omitempty"`
	Date            string `json:"date"`
	StartMinute     int    `json:"start_minute"`
	EndMinute       int    `json:"end_minute"`
	Attendees       int    `json:"attendees"`
	FinalPriceCents int64  `json:"final_price_cents"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// BookingPaidEvent is published when payment reconciliation moves a
// booking to PAID.  The redemption token is included so the
// notification consumer can deliver it to the customer.
type BookingPaidEvent struct {
	EventID     string `json:"event_id"`
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	UserEmail   string `json:"user_email"`
	AmountCents int64  `json:"amount_cents"`
	Token       string `json:"token"`
	PaidAt      string `json:"paid_at"`
}

// BookingRedeemedEvent is published when a redemption token is
// consumed at the facility.
type BookingRedeemedEvent struct {
	EventID    string `json:"event_id"`
	BookingID  uint64 `json:"booking_id"`
	FacilityID uint64 `json:"facility_id"`
	RedeemedAt string `json:"redeemed_at"`
}
