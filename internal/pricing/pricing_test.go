package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscount_FamilyCheaperThanIndividual(t *testing.T) {
	// Pensioner (25%) + Student (15%) = 40% individual vs 20% family.
	// The business keeps the smaller discount.
	d := Discount([]string{ClientPensioner, ClientStudent}, 100000)
	assert.Equal(t, int64(20000), d)

	discount, final := FinalPrice([]string{ClientPensioner, ClientStudent}, 100000)
	assert.Equal(t, int64(20000), discount)
	assert.Equal(t, int64(80000), final)
}

func TestDiscount_SingleChild(t *testing.T) {
	// Child alone: individual 25% (12500) vs family 20% (10000).
	d := Discount([]string{ClientChild}, 50000)
	assert.Equal(t, int64(10000), d)
}

func TestDiscount_IndividualCheaper(t *testing.T) {
	// A single teenager contributes 10%, below the 20% family rate.
	d := Discount([]string{ClientTeenager}, 10000)
	assert.Equal(t, int64(1000), d)
}

func TestDiscount_UnknownTypesContributeNothing(t *testing.T) {
	d := Discount([]string{"Adult", "Veteran"}, 10000)
	assert.Equal(t, int64(0), d)

	// Mixed roster: only the student counts individually.
	d = Discount([]string{"Adult", ClientStudent}, 10000)
	assert.Equal(t, int64(1500), d)
}

func TestDiscount_EmptyAndDegenerateInputs(t *testing.T) {
	assert.Equal(t, int64(0), Discount(nil, 10000))
	assert.Equal(t, int64(0), Discount([]string{ClientPensioner}, 0))
	assert.Equal(t, int64(0), Discount([]string{ClientPensioner}, -500))
}

func TestDiscount_NeverExceedsBaseCost(t *testing.T) {
	// Even an absurd roster cannot push the discount past the family
	// cap, but the clamp must hold regardless.
	roster := make([]string, 50)
	for i := range roster {
		roster[i] = ClientPensioner
	}
	for _, base := range []int64{1, 99, 1000, 123456789} {
		d := Discount(roster, base)
		assert.GreaterOrEqual(t, d, int64(0))
		assert.LessOrEqual(t, d, base)

		_, final := FinalPrice(roster, base)
		assert.GreaterOrEqual(t, final, int64(0))
	}
}

func TestDiscount_MinOfFamilyAndIndividual(t *testing.T) {
	cases := []struct {
		name   string
		roster []string
		base   int64
		want   int64
	}{
		{"pensioner+student base 1000.00", []string{ClientPensioner, ClientStudent}, 100000, 20000},
		{"child base 500.00", []string{ClientChild}, 50000, 10000},
		{"teenager+teenager", []string{ClientTeenager, ClientTeenager}, 10000, 2000},
		{"student only", []string{ClientStudent}, 10000, 1500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Discount(tc.roster, tc.base))
		})
	}
}
