// Package inventory owns the seat counters: ticket_types.reserved and
// events.booked_seats. All mutation goes through conditional single-statement
// updates executed inside the caller's transaction, so the no-oversell
// invariant holds across concurrent process instances without application
// locks. Both counters move together or not at all: any failure aborts the
// enclosing transaction.
package inventory

import (
	"tiketku/internal/events"
	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ledger interface {
	Reserve(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error
	Release(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error
}

type ledger struct{}

func NewLedger() Ledger {
	return &ledger{}
}

// Reserve increments the ticket type's reserved count and the event's booked
// seats. The guards are re-checked at update time, not just at snapshot time,
// which closes the race window between two buyers contending for the last seat.
func (l *ledger) Reserve(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return errs.New(errs.KindValidation, "reserve quantity must be positive")
	}

	result := tx.Model(&events.TicketType{}).
		Where("id = ? AND reserved + ? <= capacity", ticketTypeID, quantity).
		UpdateColumn("reserved", gorm.Expr("reserved + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Newf(errs.KindInsufficientInventory,
			"ticket type %s has fewer than %d seats available", ticketTypeID, quantity)
	}

	result = tx.Model(&events.Event{}).
		Where("id = ? AND booked_seats + ? <= available_seats", eventID, quantity).
		UpdateColumn("booked_seats", gorm.Expr("booked_seats + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Newf(errs.KindInsufficientSeats,
			"event %s seat budget cannot cover %d more seats", eventID, quantity)
	}

	return nil
}

// Release decrements both counters. Underflow means the bookkeeping is
// corrupted: it is surfaced as an invariant violation, never absorbed.
func (l *ledger) Release(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return errs.New(errs.KindValidation, "release quantity must be positive")
	}

	result := tx.Model(&events.TicketType{}).
		Where("id = ? AND reserved >= ?", ticketTypeID, quantity).
		UpdateColumn("reserved", gorm.Expr("reserved - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Newf(errs.KindInvariantViolation,
			"release of %d seats would underflow ticket type %s", quantity, ticketTypeID)
	}

	result = tx.Model(&events.Event{}).
		Where("id = ? AND booked_seats >= ?", eventID, quantity).
		UpdateColumn("booked_seats", gorm.Expr("booked_seats - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Newf(errs.KindInvariantViolation,
			"release of %d seats would underflow event %s booked seats", quantity, eventID)
	}

	return nil
}
