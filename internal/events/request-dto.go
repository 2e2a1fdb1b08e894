package events

import "time"

type TicketTypeRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Price    int64  `json:"price" binding:"min=0"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=100000"`
}

type CreateEventRequest struct {
	Name           string              `json:"name" binding:"required,min=3,max=255"`
	Description    string              `json:"description" binding:"max=2000"`
	Venue          string              `json:"venue" binding:"required,min=3,max=255"`
	StartDate      time.Time           `json:"start_date" binding:"required"`
	EndDate        time.Time           `json:"end_date" binding:"required"`
	AvailableSeats int                 `json:"available_seats" binding:"required,min=1,max=100000"`
	ImageURL       string              `json:"image_url" binding:"omitempty,url"`
	TicketTypes    []TicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

type UpdateEventRequest struct {
	Name           *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description    *string    `json:"description" binding:"omitempty,max=2000"`
	Venue          *string    `json:"venue" binding:"omitempty,min=3,max=255"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	AvailableSeats *int       `json:"available_seats" binding:"omitempty,min=1,max=100000"`
	Status         *string    `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	ImageURL       *string    `json:"image_url" binding:"omitempty,url"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Venue    string `form:"venue"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
}
