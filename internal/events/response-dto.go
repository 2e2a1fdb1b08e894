package events

import "time"

type TicketTypeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
}

type EventResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Venue          string               `json:"venue"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	Status         EventStatus          `json:"status"`
	AvailableSeats int                  `json:"available_seats"`
	BookedSeats    int                  `json:"booked_seats"`
	RemainingSeats int                  `json:"remaining_seats"`
	ImageURL       string               `json:"image_url"`
	TicketTypes    []TicketTypeResponse `json:"ticket_types"`
	OrganizerID    string               `json:"organizer_id"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
