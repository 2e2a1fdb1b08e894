package events

import (
	"net/http"

	"tiketku/internal/shared/errs"
	"tiketku/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// organizerID extracts the authenticated user id set by the JWT middleware.
func organizerID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDValue, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, errs.New(errs.KindUnauthorized, "user not authenticated"))
		return uuid.Nil, false
	}
	userIDStr, ok := userIDValue.(string)
	if !ok {
		response.Error(ctx, errs.New(errs.KindUnauthorized, "invalid user id in token"))
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.Error(ctx, errs.New(errs.KindUnauthorized, "invalid user id in token"))
		return uuid.Nil, false
	}
	return userID, true
}

// CreateEvent handles POST /api/v1/events
func (c *Controller) CreateEvent(ctx *gin.Context) {
	userID, ok := organizerID(ctx)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), userID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "event created successfully", event)
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event id", nil, nil)
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "event retrieved successfully", event)
}

// ListEvents handles GET /api/v1/events
func (c *Controller) ListEvents(ctx *gin.Context) {
	var query EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid query parameters", nil, err.Error())
		return
	}

	events, err := c.service.ListEvents(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "events retrieved successfully", events)
}

// UpdateEvent handles PATCH /api/v1/events/:id
func (c *Controller) UpdateEvent(ctx *gin.Context) {
	userID, ok := organizerID(ctx)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event id", nil, nil)
		return
	}

	var req UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	event, err := c.service.UpdateEvent(ctx.Request.Context(), eventID, userID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "event updated successfully", event)
}

// DeleteEvent handles DELETE /api/v1/events/:id
func (c *Controller) DeleteEvent(ctx *gin.Context) {
	userID, ok := organizerID(ctx)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event id", nil, nil)
		return
	}

	if err := c.service.DeleteEvent(ctx.Request.Context(), eventID, userID); err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "event deleted successfully", nil)
}
