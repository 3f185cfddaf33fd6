package model

import "time"

// Event is a scheduled happening hosted at a facility with a fixed
// per-attendee price and its own capacity.  Bookings made against an
// event skip interval availability checks; instead the attendee count
// is compared with the event's declared capacity at creation time.
// Events whose end date has passed are deactivated by a background
// sweep and can no longer be booked.
//
// Fields:
//  ID          – primary key identifier.
//  FacilityID  – facility hosting the event.
//  Name        – event name.
//  Description – short description shown to customers.
//  PriceCents  – fixed price per attendee in cents.
//  StartDate   – first day of the event (UTC).
//  EndDate     – last day of the event (UTC).
//  Capacity    – maximum total attendees across all non-cancelled bookings.
//  IsActive    – false once the end date has passed.
type Event struct {
	ID          uint64    `json:"id"`
	FacilityID  uint64    `json:"facility_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Capacity    int       `json:"capacity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
