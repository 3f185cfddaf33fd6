// Package pricing computes the discount applied to a booking from the
// attendee roster.  It is a pure function of the client types and the
// base cost; it performs no I/O and holds no state.  All arithmetic is
// done on integer cents with basis-point rates so results are exact
// and deterministic.
package pricing

// Recognized client types.  The vocabulary is open ended: any other
// value is accepted and simply contributes no individual discount.
const (
	ClientPensioner = "Pensioner"
	ClientStudent   = "Student"
	ClientTeenager  = "Teenager"
	ClientChild     = "Child"
)

// Discount rates in basis points (1/100 of a percent) applied to the
// booking's base cost, not divided per attendee.
const (
	familyRateBP    = 2000 // flat 20% family discount
	pensionerRateBP = 2500
	studentRateBP   = 1500
	teenagerRateBP  = 1000
	childRateBP     = 2500
)

// rateBP returns the individual discount rate for a client type.
func rateBP(clientType string) int64 {
	switch clientType {
	case ClientPensioner:
		return pensionerRateBP
	case ClientStudent:
		return studentRateBP
	case ClientTeenager:
		return teenagerRateBP
	case ClientChild:
		return childRateBP
	default:
		return 0
	}
}

// Discount returns the discount in cents for the given roster and base
// cost.  Two candidate discounts are computed: a flat family discount
// of 20% of the base cost, and an individual discount summing a
// per-type rate applied to the base cost for every attendee.  The
// smaller of the two is charged.
//
// The result is clamped to [0, baseCents]; an empty roster or a
// non-positive base cost yields zero.
func Discount(clientTypes []string, baseCents int64) int64 {
	if baseCents <= 0 || len(clientTypes) == 0 {
		return 0
	}
	family := baseCents * familyRateBP / 10000
	var individual int64
	for _, ct := range clientTypes {
		individual += baseCents * rateBP(ct) / 10000
	}
	d := family
	if individual < d {
		d = individual
	}
	if d < 0 {
		return 0
	}
	if d > baseCents {
		return baseCents
	}
	return d
}

// FinalPrice returns baseCents minus the roster discount, never
// negative even for malformed inputs.
func FinalPrice(clientTypes []string, baseCents int64) (discount, final int64) {
	discount = Discount(clientTypes, baseCents)
	final = baseCents - discount
	if final < 0 {
		final = 0
	}
	return discount, final
}
