// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as the booking service and handlers to distinguish between
// failure scenarios without inspecting SQL errors.  Infrastructure
// failures (connection loss, syntax errors) propagate as ordinary
// wrapped errors and are never part of this set.
package repository

import "errors"

// ErrFacilityNotFound indicates that the referenced facility does not
// exist or is inactive.
var ErrFacilityNotFound = errors.New("facility not found")

// ErrEventNotFound indicates that the referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound indicates that the referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotUnavailable is returned when the admission check fails: the
// number of bookings overlapping the requested window has reached the
// facility's capacity.  Handlers translate this into HTTP 409.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrInsufficientPoints is returned when a loyalty debit would push the
// balance below zero.  The debit is refused and no state changes.
var ErrInsufficientPoints = errors.New("insufficient loyalty points")

// ErrNoFacilityAvailable is returned by the free-booking path when no
// active facility exists to host the booking.
var ErrNoFacilityAvailable = errors.New("no facility available")

// ErrTokenUsed is returned when a redemption is attempted against a
// booking whose token has already been consumed.  The compare-and-set
// in ConsumeToken guarantees at most one caller ever sees success.
var ErrTokenUsed = errors.New("token already used")
