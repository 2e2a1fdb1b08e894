package notifications

import (
	"context"
	"time"

	"tiketku/internal/bookings"
	"tiketku/pkg/logger"

	"github.com/google/uuid"
)

// Service turns booking lifecycle transitions into published notifications.
// Publishing is fire-and-forget: a broker failure is logged, never returned,
// so the booking transaction outcome is unaffected.
type Service struct {
	producer Producer
}

func NewService(producer Producer) *Service {
	return &Service{producer: producer}
}

func (s *Service) BookingCreated(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypeBookingCreated, booking)
}

func (s *Service) PaymentReceived(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypePaymentReceived, booking)
}

func (s *Service) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypeBookingConfirmed, booking)
}

func (s *Service) BookingRejected(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypeBookingRejected, booking)
}

func (s *Service) BookingExpired(ctx context.Context, booking *bookings.Booking) {
	s.publish(ctx, NotificationTypeBookingExpired, booking)
}

func (s *Service) publish(ctx context.Context, notificationType NotificationType, booking *bookings.Booking) {
	if s.producer == nil {
		return
	}
	notification := &BookingNotification{
		ID:            uuid.New(),
		Type:          notificationType,
		BookingID:     booking.ID,
		InvoiceNumber: booking.InvoiceNumber,
		UserID:        booking.UserID,
		EventID:       booking.EventID,
		FinalAmount:   booking.FinalAmount,
		Status:        string(booking.Status),
		CreatedAt:     time.Now(),
	}
	if err := s.producer.Publish(ctx, notification); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish booking notification", err,
			map[string]interface{}{
				"type":       string(notificationType),
				"booking_id": booking.ID.String(),
			})
	}
}
