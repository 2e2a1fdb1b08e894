package pricing

// All monetary amounts in this codebase are int64 minor currency units so
// discount stacking, caps and floors stay exact.

type RuleType string

const (
	RulePercentage RuleType = "PERCENTAGE"
	RuleFixed      RuleType = "FIXED"
)

// Rule describes a single discount source (voucher or coupon template).
type Rule struct {
	Type RuleType `json:"type"`
	// Value is a percent (0-100) for PERCENTAGE rules, an amount for FIXED rules.
	Value int64 `json:"value"`
	// Cap bounds a percentage discount. Zero means uncapped.
	Cap int64 `json:"cap"`
	// MinPurchase is the smallest base amount the rule applies to.
	MinPurchase int64 `json:"min_purchase"`
}

// Compute returns the discount a rule yields on baseAmount.
// The result is always within [0, baseAmount].
func Compute(baseAmount int64, r Rule) int64 {
	if baseAmount <= 0 {
		return 0
	}

	var discount int64
	switch r.Type {
	case RulePercentage:
		discount = baseAmount * r.Value / 100
		if r.Cap > 0 && discount > r.Cap {
			discount = r.Cap
		}
	case RuleFixed:
		discount = r.Value
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if discount > baseAmount {
		return baseAmount
	}
	return discount
}

// MeetsMinPurchase reports whether baseAmount satisfies the rule's minimum.
func (r Rule) MeetsMinPurchase(baseAmount int64) bool {
	return baseAmount >= r.MinPurchase
}

// FinalAmount applies the stacked discounts with the floor-at-zero contract:
// finalAmount = max(0, totalAmount - points - voucher - coupon).
func FinalAmount(totalAmount, pointsApplied, voucherDiscount, couponDiscount int64) int64 {
	final := totalAmount - pointsApplied - voucherDiscount - couponDiscount
	if final < 0 {
		return 0
	}
	return final
}
