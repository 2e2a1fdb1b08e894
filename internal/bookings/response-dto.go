package bookings

import (
	"time"

	"github.com/google/uuid"
)

type LineItemResponse struct {
	TicketTypeID   uuid.UUID `json:"ticket_type_id"`
	TicketTypeName string    `json:"ticket_type_name"`
	UnitPrice      int64     `json:"unit_price"`
	Quantity       int       `json:"quantity"`
	Subtotal       int64     `json:"subtotal"`
}

type BookingResponse struct {
	ID              uuid.UUID          `json:"id"`
	InvoiceNumber   string             `json:"invoice_number"`
	UserID          uuid.UUID          `json:"user_id"`
	EventID         uuid.UUID          `json:"event_id"`
	Status          string             `json:"status"`
	Quantity        int                `json:"quantity"`
	TotalAmount     int64              `json:"total_amount"`
	PointsApplied   int64              `json:"points_applied"`
	VoucherDiscount int64              `json:"voucher_discount"`
	CouponDiscount  int64              `json:"coupon_discount"`
	FinalAmount     int64              `json:"final_amount"`
	PaymentProofURL string             `json:"payment_proof_url,omitempty"`
	PaymentDeadline time.Time          `json:"payment_deadline"`
	CreatedAt       time.Time          `json:"created_at"`
	LineItems       []LineItemResponse `json:"line_items,omitempty"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toBookingResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID,
		InvoiceNumber:   b.InvoiceNumber,
		UserID:          b.UserID,
		EventID:         b.EventID,
		Status:          string(b.Status),
		Quantity:        b.Quantity,
		TotalAmount:     b.TotalAmount,
		PointsApplied:   b.PointsApplied,
		VoucherDiscount: b.VoucherDiscount,
		CouponDiscount:  b.CouponDiscount,
		FinalAmount:     b.FinalAmount,
		PaymentProofURL: b.PaymentProofURL,
		PaymentDeadline: b.PaymentDeadline,
		CreatedAt:       b.CreatedAt,
	}
	for _, item := range b.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			TicketTypeID:   item.TicketTypeID,
			TicketTypeName: item.TicketTypeName,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			Subtotal:       item.Subtotal,
		})
	}
	return resp
}
