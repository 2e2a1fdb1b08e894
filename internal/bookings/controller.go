package bookings

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"tiketku/internal/shared/errs"
	"tiketku/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProofStore persists uploaded payment proofs and returns a serving URL.
type ProofStore interface {
	Save(ctx context.Context, name string, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}

type Controller struct {
	service Service
	proofs  ProofStore
	maxSize int64
}

func NewController(service Service, proofs ProofStore, maxUploadSize int64) *Controller {
	return &Controller{service: service, proofs: proofs, maxSize: maxUploadSize}
}

func requesterID(ctx *gin.Context) (uuid.UUID, error) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, errs.New(errs.KindUnauthorized, "missing authentication")
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, errs.New(errs.KindUnauthorized, "invalid user id in token")
	}
	return id, nil
}

func requesterRole(ctx *gin.Context) string {
	if role, exists := ctx.Get("user_role"); exists {
		if s, ok := role.(string); ok {
			return s
		}
	}
	return ""
}

func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid booking payload"))
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusCreated, "Booking created", booking)
}

func (c *Controller) SubmitPaymentProof(ctx *gin.Context) {
	userID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid booking id"))
		return
	}

	header, err := ctx.FormFile("proof")
	if err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "payment proof file is required"))
		return
	}
	if header.Size > c.maxSize {
		response.Error(ctx, errs.Newf(errs.KindValidation,
			"payment proof exceeds the %d byte limit", c.maxSize))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindInternal, "failed to read payment proof"))
		return
	}
	defer file.Close()

	name := fmt.Sprintf("proof-%s%s", bookingID, filepath.Ext(header.Filename))
	proofURL, err := c.proofs.Save(ctx.Request.Context(), name,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindInternal, "failed to store payment proof"))
		return
	}

	booking, err := c.service.SubmitPaymentProof(ctx.Request.Context(), userID, bookingID, proofURL)
	if err != nil {
		// The rejected submission must not leave its file behind.
		_ = c.proofs.Remove(ctx.Request.Context(), name)
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Payment proof submitted", booking)
}

func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	organizerID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid booking id"))
		return
	}

	var req ConfirmBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid confirmation payload"))
		return
	}

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), organizerID, bookingID, req.Accept)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	message := "Booking confirmed"
	if !req.Accept {
		message = "Booking rejected"
	}
	response.Success(ctx, http.StatusOK, message, booking)
}

func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid booking id"))
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Booking canceled", booking)
}

func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid booking id"))
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), userID, requesterRole(ctx), bookingID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Booking retrieved", booking)
}

func (c *Controller) ListMyBookings(ctx *gin.Context) {
	userID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	var q ListBookingsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid query parameters"))
		return
	}

	bookings, err := c.service.ListBookingsForUser(ctx.Request.Context(), userID, q)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Bookings retrieved", bookings)
}

func (c *Controller) ListEventBookings(ctx *gin.Context) {
	organizerID, err := requesterID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid event id"))
		return
	}

	var q ListBookingsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid query parameters"))
		return
	}

	bookings, err := c.service.ListBookingsForEvent(ctx.Request.Context(), organizerID, eventID, q)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Event bookings retrieved", bookings)
}
