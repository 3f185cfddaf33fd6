package model

import "time"

// Facility is a bookable shared resource such as a museum, park or
// community hall.  Capacity bounds the number of bookings whose time
// windows may overlap on a given date.  A facility with
// PricePerHourCents == 0 and IsNoCost == true can be booked without
// payment; availability rules still apply.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – facility name.
//  Description       – short description shown to customers.
//  Type              – free-form category (e.g. "Museum", "Park").
//  Address           – physical address.
//  PricePerHourCents – hourly rate in cents; zero for no-cost facilities.
//  Capacity          – maximum concurrent bookings per overlapping window.
//  IsNoCost          – marks the facility as free of charge.
//  IsActive          – whether the facility accepts new bookings.
type Facility struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Type              string    `json:"type"`
	Address           string    `json:"address"`
	PricePerHourCents int64     `json:"price_per_hour_cents"`
	Capacity          int       `json:"capacity"`
	IsNoCost          bool      `json:"is_no_cost"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
