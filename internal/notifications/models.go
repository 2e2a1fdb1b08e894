package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingCreated  NotificationType = "BOOKING_CREATED"
	NotificationTypePaymentReceived NotificationType = "PAYMENT_RECEIVED"
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingRejected NotificationType = "BOOKING_REJECTED"
	NotificationTypeBookingExpired  NotificationType = "BOOKING_EXPIRED"
)

// BookingNotification is the message published for every booking lifecycle
// transition. Consumers key retries off ID; partitioning is by user so one
// buyer's notifications stay ordered.
type BookingNotification struct {
	ID            uuid.UUID        `json:"id"`
	Type          NotificationType `json:"type"`
	BookingID     uuid.UUID        `json:"booking_id"`
	InvoiceNumber string           `json:"invoice_number"`
	UserID        uuid.UUID        `json:"user_id"`
	EventID       uuid.UUID        `json:"event_id"`
	FinalAmount   int64            `json:"final_amount"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes all of one user's notifications to the same partition.
func (n *BookingNotification) PartitionKey() string {
	return n.UserID.String()
}
