package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the transactional record tying reserved inventory, applied
// discounts and payment state together. Amounts are in minor currency
// units; FinalAmount = max(0, TotalAmount - PointsApplied -
// VoucherDiscount - CouponDiscount).
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"unique;not null;size:20" json:"invoice_number"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"event_id"`
	Status        BookingStatus `gorm:"type:varchar(30);not null;default:'AWAITING_PAYMENT';index" json:"status"`

	Quantity int `gorm:"not null;check:quantity > 0" json:"quantity"`

	TotalAmount     int64 `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	PointsApplied   int64 `gorm:"default:0;check:points_applied >= 0" json:"points_applied"`
	VoucherDiscount int64 `gorm:"default:0;check:voucher_discount >= 0" json:"voucher_discount"`
	CouponDiscount  int64 `gorm:"default:0;check:coupon_discount >= 0" json:"coupon_discount"`
	FinalAmount     int64 `gorm:"not null;check:final_amount >= 0" json:"final_amount"`

	AppliedVoucherID *uuid.UUID `gorm:"type:uuid" json:"applied_voucher_id,omitempty"`
	AppliedCouponID  *uuid.UUID `gorm:"type:uuid" json:"applied_coupon_id,omitempty"`

	PaymentProofURL string    `gorm:"size:500" json:"payment_proof_url,omitempty"`
	PaymentDeadline time.Time `gorm:"not null;index" json:"payment_deadline"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LineItems []LineItem `gorm:"foreignKey:BookingID" json:"line_items,omitempty"`
}

// LineItem snapshots the ticket type and unit price at booking time so
// later catalog edits never change what the buyer owes.
type LineItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID      uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	TicketTypeID   uuid.UUID `gorm:"type:uuid;not null" json:"ticket_type_id"`
	TicketTypeName string    `gorm:"not null;size:100" json:"ticket_type_name"`
	UnitPrice      int64     `gorm:"not null;check:unit_price >= 0" json:"unit_price"`
	Quantity       int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Subtotal       int64     `gorm:"not null" json:"subtotal"`
	CreatedAt      time.Time `json:"created_at"`
}

// Attendance is created when a booking is confirmed and tracks check-in
// at the venue.
type Attendance struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID   uuid.UUID  `gorm:"type:uuid;unique;not null" json:"booking_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CheckedIn   bool       `gorm:"default:false" json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Booking) TableName() string    { return "bookings" }
func (LineItem) TableName() string   { return "booking_line_items" }
func (Attendance) TableName() string { return "attendances" }

// DeadlinePassed reports whether the payment window closed before now.
func (b *Booking) DeadlinePassed(now time.Time) bool {
	return now.After(b.PaymentDeadline)
}
