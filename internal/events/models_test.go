package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEventIsBookable(t *testing.T) {
	now := time.Now()
	event := &Event{
		Status:    StatusPublished,
		StartDate: now.Add(24 * time.Hour),
	}

	assert.True(t, event.IsBookable(now))

	t.Run("draft event is not bookable", func(t *testing.T) {
		draft := *event
		draft.Status = StatusDraft
		assert.False(t, draft.IsBookable(now))
	})

	t.Run("cancelled event is not bookable", func(t *testing.T) {
		cancelled := *event
		cancelled.Status = StatusCancelled
		assert.False(t, cancelled.IsBookable(now))
	})

	t.Run("started event is not bookable", func(t *testing.T) {
		assert.False(t, event.IsBookable(now.Add(25*time.Hour)))
	})
}

func TestTicketTypeAvailable(t *testing.T) {
	tt := &TicketType{Capacity: 100, Reserved: 60}
	assert.Equal(t, 40, tt.Available())

	tt.Reserved = 100
	assert.Equal(t, 0, tt.Available())

	// Overshoot clamps instead of going negative.
	tt.Reserved = 105
	assert.Equal(t, 0, tt.Available())
}

func TestEventRemainingSeats(t *testing.T) {
	event := &Event{AvailableSeats: 500, BookedSeats: 175}
	assert.Equal(t, 325, event.RemainingSeats())

	event.BookedSeats = 500
	assert.Equal(t, 0, event.RemainingSeats())
}

func TestEventTicketTypeLookup(t *testing.T) {
	regular := TicketType{ID: uuid.New(), Name: "Regular"}
	vip := TicketType{ID: uuid.New(), Name: "VIP"}
	event := &Event{TicketTypes: []TicketType{regular, vip}}

	found := event.TicketType(vip.ID)
	if assert.NotNil(t, found) {
		assert.Equal(t, "VIP", found.Name)
	}
	assert.Nil(t, event.TicketType(uuid.New()))
}
