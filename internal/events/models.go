package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"not null;size:255"`
	StartDate   time.Time   `json:"start_date" gorm:"not null"`
	EndDate     time.Time   `json:"end_date" gorm:"not null"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	// Event-level seat budget, tracked independently of per-type capacity.
	// Invariant: 0 <= booked_seats <= available_seats.
	AvailableSeats int `json:"available_seats" gorm:"not null;check:available_seats > 0"`
	BookedSeats    int `json:"booked_seats" gorm:"default:0;check:booked_seats >= 0"`

	ImageURL string `json:"image_url" gorm:"size:500"`

	TicketTypes []TicketType `json:"ticket_types,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	OrganizerID uuid.UUID `json:"organizer_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TicketType is a priced admission category with its own capacity and
// sold counter. Invariant: 0 <= reserved <= capacity.
type TicketType struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"not null;size:100"`
	Price    int64     `json:"price" gorm:"not null;check:price >= 0"`
	Capacity int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	Reserved int       `json:"reserved" gorm:"default:0;check:reserved >= 0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (TicketType) TableName() string {
	return "ticket_types"
}

// Available returns the unreserved quantity for this ticket type.
func (t *TicketType) Available() int {
	available := t.Capacity - t.Reserved
	if available < 0 {
		return 0
	}
	return available
}

// RemainingSeats returns the event-level seat budget still open.
func (e *Event) RemainingSeats() int {
	remaining := e.AvailableSeats - e.BookedSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsBookable reports whether new bookings may be created against this event.
func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == StatusPublished && now.Before(e.StartDate)
}

// TicketType looks up a ticket type on the loaded aggregate.
func (e *Event) TicketType(id uuid.UUID) *TicketType {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].ID == id {
			return &e.TicketTypes[i]
		}
	}
	return nil
}

// ToResponse converts an Event to its API representation.
func (e *Event) ToResponse() EventResponse {
	ticketTypes := make([]TicketTypeResponse, 0, len(e.TicketTypes))
	for i := range e.TicketTypes {
		t := &e.TicketTypes[i]
		ticketTypes = append(ticketTypes, TicketTypeResponse{
			ID:        t.ID.String(),
			Name:      t.Name,
			Price:     t.Price,
			Capacity:  t.Capacity,
			Available: t.Available(),
		})
	}

	return EventResponse{
		ID:             e.ID.String(),
		Name:           e.Name,
		Description:    e.Description,
		Venue:          e.Venue,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		Status:         e.Status,
		AvailableSeats: e.AvailableSeats,
		BookedSeats:    e.BookedSeats,
		RemainingSeats: e.RemainingSeats(),
		ImageURL:       e.ImageURL,
		TicketTypes:    ticketTypes,
		OrganizerID:    e.OrganizerID.String(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
