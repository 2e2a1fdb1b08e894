package rewards

import (
	"time"

	"tiketku/internal/pricing"

	"github.com/google/uuid"
)

// LotSource identifies what credited a point lot.
type LotSource string

const (
	LotSourceSignup   LotSource = "SIGNUP"
	LotSourceReferral LotSource = "REFERRAL"
	LotSourceRefund   LotSource = "REFUND"
)

// PointLot is a time-bounded batch of loyalty points. Lots are consumed
// oldest-expiry-first; Amount is the remaining balance on the lot.
type PointLot struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        int64     `gorm:"not null;check:amount >= 0" json:"amount"`
	InitialAmount int64     `gorm:"not null" json:"initial_amount"`
	Source        LotSource `gorm:"type:varchar(20);not null" json:"source"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	IsExpired     bool      `gorm:"default:false" json:"is_expired"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Voucher is an event-scoped, multi-use discount code with a usage ceiling.
type Voucher struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Code    string    `gorm:"unique;not null;size:50" json:"code"`

	DiscountType      pricing.RuleType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue     int64            `gorm:"not null;check:discount_value >= 0" json:"discount_value"`
	MaxDiscount       int64            `gorm:"default:0" json:"max_discount"`
	MinPurchaseAmount int64            `gorm:"default:0" json:"min_purchase_amount"`

	MaxUsage  int       `gorm:"not null;check:max_usage > 0" json:"max_usage"`
	UsedCount int       `gorm:"default:0;check:used_count >= 0" json:"used_count"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CouponTemplate is the reusable definition coupons are minted from.
type CouponTemplate struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null;size:100" json:"name"`

	DiscountType      pricing.RuleType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue     int64            `gorm:"not null;check:discount_value >= 0" json:"discount_value"`
	MaxDiscount       int64            `gorm:"default:0" json:"max_discount"`
	MinPurchaseAmount int64            `gorm:"default:0" json:"min_purchase_amount"`

	// ValidityDays is how long a minted coupon stays redeemable.
	ValidityDays int `gorm:"not null;default:30" json:"validity_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Coupon is a user-scoped, single-use discount instance minted from a template.
type Coupon struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null" json:"template_id"`
	Code       string    `gorm:"unique;not null;size:50" json:"code"`
	IsUsed     bool      `gorm:"default:false" json:"is_used"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Template *CouponTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (PointLot) TableName() string       { return "point_lots" }
func (Voucher) TableName() string        { return "vouchers" }
func (CouponTemplate) TableName() string { return "coupon_templates" }
func (Coupon) TableName() string         { return "coupons" }

// Rule converts the voucher's discount fields to a pricing rule.
func (v *Voucher) Rule() pricing.Rule {
	return pricing.Rule{
		Type:        v.DiscountType,
		Value:       v.DiscountValue,
		Cap:         v.MaxDiscount,
		MinPurchase: v.MinPurchaseAmount,
	}
}

// InWindow reports whether the voucher is inside its usage window.
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartDate) && !now.After(v.EndDate)
}

// Exhausted reports whether the usage ceiling has been reached.
func (v *Voucher) Exhausted() bool {
	return v.UsedCount >= v.MaxUsage
}

// Rule converts the template's discount fields to a pricing rule.
func (t *CouponTemplate) Rule() pricing.Rule {
	return pricing.Rule{
		Type:        t.DiscountType,
		Value:       t.DiscountValue,
		Cap:         t.MaxDiscount,
		MinPurchase: t.MinPurchaseAmount,
	}
}

// Usable reports whether the coupon can still be redeemed at now.
func (c *Coupon) Usable(now time.Time) bool {
	return !c.IsUsed && now.Before(c.ExpiresAt)
}

// Usable reports whether the lot still holds spendable points at now.
func (l *PointLot) Usable(now time.Time) bool {
	return !l.IsExpired && l.Amount > 0 && now.Before(l.ExpiresAt)
}
