package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCauseAndKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, KindInternal, "failed to debit point lot")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to debit point lot")
}

func TestWrapThroughFmtChain(t *testing.T) {
	inner := Wrap(errors.New("deadlock detected"), KindConflict, "booking transition raced")
	outer := fmt.Errorf("create booking: %w", inner)

	assert.Equal(t, KindConflict, KindOf(outer))
	assert.True(t, IsKind(outer, KindConflict))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatus(New(KindInsufficientInventory, "sold out")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(New(KindBookingNotFound, "no such booking")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
