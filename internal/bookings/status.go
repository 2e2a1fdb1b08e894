package bookings

// BookingStatus tracks a booking through its payment lifecycle.
type BookingStatus string

const (
	// StatusAwaitingPayment holds reserved inventory until the payment
	// deadline passes or proof is submitted.
	StatusAwaitingPayment BookingStatus = "AWAITING_PAYMENT"
	// StatusAwaitingConfirmation means proof was submitted and the
	// organizer has yet to accept or reject it.
	StatusAwaitingConfirmation BookingStatus = "AWAITING_CONFIRMATION"
	StatusConfirmed            BookingStatus = "CONFIRMED"
	StatusRejected             BookingStatus = "REJECTED"
	StatusExpired              BookingStatus = "EXPIRED"
	StatusCanceled             BookingStatus = "CANCELED"
)

func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusRejected, StatusExpired, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusAwaitingPayment:
		return next == StatusAwaitingConfirmation ||
			next == StatusExpired ||
			next == StatusCanceled
	case StatusAwaitingConfirmation:
		return next == StatusConfirmed || next == StatusRejected
	}
	return false
}

// ReleasesInventory reports whether entering this status must hand back
// seats and undo applied discounts.
func (s BookingStatus) ReleasesInventory() bool {
	switch s {
	case StatusRejected, StatusExpired, StatusCanceled:
		return true
	}
	return false
}
