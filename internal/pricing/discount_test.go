package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_Percentage(t *testing.T) {
	tests := []struct {
		name string
		base int64
		rule Rule
		want int64
	}{
		{
			name: "plain percentage",
			base: 120000,
			rule: Rule{Type: RulePercentage, Value: 10},
			want: 12000,
		},
		{
			name: "cap not reached",
			base: 120000,
			rule: Rule{Type: RulePercentage, Value: 10, Cap: 20000},
			want: 12000,
		},
		{
			name: "clamped to cap",
			base: 500000,
			rule: Rule{Type: RulePercentage, Value: 10, Cap: 20000},
			want: 20000,
		},
		{
			name: "100 percent never exceeds base",
			base: 75000,
			rule: Rule{Type: RulePercentage, Value: 100},
			want: 75000,
		},
		{
			name: "zero cap means uncapped",
			base: 500000,
			rule: Rule{Type: RulePercentage, Value: 50, Cap: 0},
			want: 250000,
		},
		{
			name: "floor division",
			base: 99,
			rule: Rule{Type: RulePercentage, Value: 10},
			want: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.base, tt.rule))
		})
	}
}

func TestCompute_Fixed(t *testing.T) {
	assert.Equal(t, int64(15000), Compute(120000, Rule{Type: RuleFixed, Value: 15000}))

	// A fixed discount larger than the base clamps to the base.
	assert.Equal(t, int64(50000), Compute(50000, Rule{Type: RuleFixed, Value: 80000}))
}

func TestCompute_Bounds(t *testing.T) {
	rules := []Rule{
		{Type: RulePercentage, Value: 0},
		{Type: RulePercentage, Value: 10, Cap: 1},
		{Type: RulePercentage, Value: 100},
		{Type: RuleFixed, Value: 0},
		{Type: RuleFixed, Value: 1 << 40},
		{Type: RuleType("UNKNOWN"), Value: 99},
		{Type: RuleFixed, Value: -500},
	}
	bases := []int64{0, 1, 99, 100000, 1 << 50}

	// Monotonicity contract: 0 <= Compute(base, rule) <= base for every rule shape.
	for _, r := range rules {
		for _, base := range bases {
			got := Compute(base, r)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.LessOrEqual(t, got, base)
		}
	}
}

func TestFinalAmount_FloorAtZero(t *testing.T) {
	// Scenario from the pricing contract: 120000 total, 50000 points,
	// 10% voucher capped at 20000 -> 12000 discount.
	assert.Equal(t, int64(58000), FinalAmount(120000, 50000, 12000, 0))

	// Discounts jointly exceeding the total floor at zero, never negative.
	assert.Equal(t, int64(0), FinalAmount(100000, 60000, 30000, 20000))
	assert.Equal(t, int64(0), FinalAmount(0, 0, 0, 0))
}

func TestMeetsMinPurchase(t *testing.T) {
	r := Rule{Type: RulePercentage, Value: 10, MinPurchase: 100000}
	assert.True(t, r.MeetsMinPurchase(100000))
	assert.True(t, r.MeetsMinPurchase(250000))
	assert.False(t, r.MeetsMinPurchase(99999))
}
