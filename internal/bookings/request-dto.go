package bookings

type BookingItemRequest struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

type CreateBookingRequest struct {
	EventID     string               `json:"event_id" binding:"required,uuid"`
	Items       []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
	PointsToUse int64                `json:"points_to_use" binding:"omitempty,gte=0"`
	VoucherCode string               `json:"voucher_code" binding:"omitempty,max=50"`
	CouponCode  string               `json:"coupon_code" binding:"omitempty,max=50"`
}

type ConfirmBookingRequest struct {
	// Accept true confirms the booking, false rejects it and releases
	// everything the booking held.
	Accept bool `json:"accept"`
}

type ListBookingsQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
