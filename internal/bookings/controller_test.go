package bookings

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tiketku/internal/shared/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProofService struct {
	Service
	err  error
	resp *BookingResponse
}

func (s *stubProofService) SubmitPaymentProof(ctx context.Context, userID, bookingID uuid.UUID, proofURL string) (*BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type recordingProofStore struct {
	saved   []string
	removed []string
}

func (r *recordingProofStore) Save(ctx context.Context, name, contentType string, reader io.Reader) (string, error) {
	r.saved = append(r.saved, name)
	return "/uploads/" + name, nil
}

func (r *recordingProofStore) Remove(ctx context.Context, name string) error {
	r.removed = append(r.removed, name)
	return nil
}

func proofUploadContext(t *testing.T, userID, bookingID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("proof", "receipt.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID.String()+"/payment-proof", &body)
	ctx.Request.Header.Set("Content-Type", writer.FormDataContentType())
	ctx.Params = gin.Params{{Key: "id", Value: bookingID.String()}}
	ctx.Set("user_id", userID.String())
	ctx.Set("user_role", "USER")
	return ctx, rec
}

func TestSubmitPaymentProof_RejectedSubmissionRemovesStoredFile(t *testing.T) {
	store := &recordingProofStore{}
	service := &stubProofService{err: errs.New(errs.KindBookingExpired, "payment deadline passed")}
	controller := NewController(service, store, 10<<20)

	ctx, rec := proofUploadContext(t, uuid.New(), uuid.New())
	controller.SubmitPaymentProof(ctx)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved, store.removed)
}

func TestSubmitPaymentProof_AcceptedSubmissionKeepsFile(t *testing.T) {
	store := &recordingProofStore{}
	service := &stubProofService{resp: &BookingResponse{
		ID:              uuid.New(),
		Status:          string(StatusAwaitingConfirmation),
		PaymentDeadline: time.Now().Add(time.Hour),
	}}
	controller := NewController(service, store, 10<<20)

	ctx, rec := proofUploadContext(t, uuid.New(), uuid.New())
	controller.SubmitPaymentProof(ctx)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.saved, 1)
	assert.Empty(t, store.removed)
}
