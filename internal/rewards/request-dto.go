package rewards

import (
	"time"

	"tiketku/internal/pricing"
)

type CreateVoucherRequest struct {
	EventID           string           `json:"event_id" binding:"required,uuid"`
	Code              string           `json:"code" binding:"required,min=3,max=50"`
	DiscountType      pricing.RuleType `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue     int64            `json:"discount_value" binding:"required,gt=0"`
	MaxDiscount       int64            `json:"max_discount" binding:"omitempty,gte=0"`
	MinPurchaseAmount int64            `json:"min_purchase_amount" binding:"omitempty,gte=0"`
	MaxUsage          int              `json:"max_usage" binding:"required,gt=0"`
	StartDate         time.Time        `json:"start_date" binding:"required"`
	EndDate           time.Time        `json:"end_date" binding:"required"`
}

type CreateCouponTemplateRequest struct {
	Name              string           `json:"name" binding:"required,min=3,max=100"`
	DiscountType      pricing.RuleType `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue     int64            `json:"discount_value" binding:"required,gt=0"`
	MaxDiscount       int64            `json:"max_discount" binding:"omitempty,gte=0"`
	MinPurchaseAmount int64            `json:"min_purchase_amount" binding:"omitempty,gte=0"`
	ValidityDays      int              `json:"validity_days" binding:"required,gt=0"`
}

type MintCouponRequest struct {
	UserID     string `json:"user_id" binding:"required,uuid"`
	TemplateID string `json:"template_id" binding:"required,uuid"`
}
