package events

import (
	"context"
	"fmt"
	"time"

	"tiketku/internal/shared/errs"
	"tiketku/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	cacheKeyEventPrefix = "tiketku:events:detail:"
	cacheKeyEventList   = "tiketku:events:list:*"
	cacheTTL            = 5 * time.Minute
)

type Service interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id, organizerID uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id, organizerID uuid.UUID) error
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)

	// IsEventOrganizer reports whether userID organizes the event. Used by the
	// booking engine to gate confirmation.
	IsEventOrganizer(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	// GetBookableForUpdate loads an event and its ticket types under a row
	// lock inside the caller's transaction. Used by the booking engine.
	GetBookableForUpdate(tx *gorm.DB, id uuid.UUID) (*Event, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, errs.New(errs.KindValidation, "end date must be after start date")
	}

	totalCapacity := 0
	ticketTypes := make([]TicketType, 0, len(req.TicketTypes))
	for _, t := range req.TicketTypes {
		ticketTypes = append(ticketTypes, TicketType{
			Name:     t.Name,
			Price:    t.Price,
			Capacity: t.Capacity,
		})
		totalCapacity += t.Capacity
	}

	if req.AvailableSeats > totalCapacity {
		return nil, errs.New(errs.KindValidation, "available seats exceed combined ticket type capacity")
	}

	event := &Event{
		Name:           req.Name,
		Description:    req.Description,
		Venue:          req.Venue,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AvailableSeats: req.AvailableSeats,
		Status:         StatusDraft,
		ImageURL:       req.ImageURL,
		TicketTypes:    ticketTypes,
		OrganizerID:    organizerID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateListCache(ctx)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	if s.cache != nil {
		var cached EventResponse
		key := cacheKeyEventPrefix + id.String()
		err := s.cache.GetOrSet(ctx, key, cacheTTL, func() (interface{}, error) {
			event, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return event.ToResponse(), nil
		}, &cached)
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id, organizerID uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, errs.New(errs.KindForbidden, "only the organizer can modify this event")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.AvailableSeats != nil {
		if *req.AvailableSeats < event.BookedSeats {
			return nil, errs.New(errs.KindValidation, "available seats cannot drop below seats already booked")
		}
		updates["available_seats"] = *req.AvailableSeats
	}
	if req.Status != nil {
		status := EventStatus(*req.Status)
		if !status.IsValid() {
			return nil, errs.New(errs.KindValidation, "invalid event status")
		}
		updates["status"] = status
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) == 0 {
		resp := event.ToResponse()
		return &resp, nil
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateEventCache(ctx, id)

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, id, organizerID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return errs.New(errs.KindForbidden, "only the organizer can delete this event")
	}
	if event.BookedSeats > 0 {
		return errs.New(errs.KindConflict, "event has active bookings and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateEventCache(ctx, id)
	return nil
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	eventList, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	responses := make([]EventResponse, 0, len(eventList))
	for i := range eventList {
		responses = append(responses, eventList[i].ToResponse())
	}

	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}, nil
}

func (s *service) IsEventOrganizer(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	return event.OrganizerID == userID, nil
}

func (s *service) GetBookableForUpdate(tx *gorm.DB, id uuid.UUID) (*Event, error) {
	return s.repo.GetBookableForUpdate(tx, id)
}

func (s *service) invalidateEventCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, cacheKeyEventPrefix+id.String())
	_ = s.cache.DeletePattern(ctx, cacheKeyEventList)
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, cacheKeyEventList)
}
