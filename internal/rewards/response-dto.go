package rewards

import (
	"time"

	"github.com/google/uuid"
)

type PointLotResponse struct {
	ID        uuid.UUID `json:"id"`
	Amount    int64     `json:"amount"`
	Source    string    `json:"source"`
	ExpiresAt time.Time `json:"expires_at"`
}

type BalanceResponse struct {
	Total int64              `json:"total"`
	Lots  []PointLotResponse `json:"lots"`
}

type VoucherResponse struct {
	ID                uuid.UUID `json:"id"`
	EventID           uuid.UUID `json:"event_id"`
	Code              string    `json:"code"`
	DiscountType      string    `json:"discount_type"`
	DiscountValue     int64     `json:"discount_value"`
	MaxDiscount       int64     `json:"max_discount"`
	MinPurchaseAmount int64     `json:"min_purchase_amount"`
	MaxUsage          int       `json:"max_usage"`
	UsedCount         int       `json:"used_count"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}

type CouponResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name,omitempty"`
	DiscountType  string    `json:"discount_type,omitempty"`
	DiscountValue int64     `json:"discount_value,omitempty"`
	MaxDiscount   int64     `json:"max_discount,omitempty"`
	IsUsed        bool      `json:"is_used"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func toVoucherResponse(v *Voucher) VoucherResponse {
	return VoucherResponse{
		ID:                v.ID,
		EventID:           v.EventID,
		Code:              v.Code,
		DiscountType:      string(v.DiscountType),
		DiscountValue:     v.DiscountValue,
		MaxDiscount:       v.MaxDiscount,
		MinPurchaseAmount: v.MinPurchaseAmount,
		MaxUsage:          v.MaxUsage,
		UsedCount:         v.UsedCount,
		StartDate:         v.StartDate,
		EndDate:           v.EndDate,
	}
}

func toCouponResponse(c *Coupon) CouponResponse {
	resp := CouponResponse{
		ID:        c.ID,
		Code:      c.Code,
		IsUsed:    c.IsUsed,
		ExpiresAt: c.ExpiresAt,
	}
	if c.Template != nil {
		resp.Name = c.Template.Name
		resp.DiscountType = string(c.Template.DiscountType)
		resp.DiscountValue = c.Template.DiscountValue
		resp.MaxDiscount = c.Template.MaxDiscount
	}
	return resp
}
