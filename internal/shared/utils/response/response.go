package response

import (
	"tiketku/internal/shared/errs"

	"github.com/gin-gonic/gin"
)

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error maps a typed engine error onto the envelope. Invariant violations are
// reported as internal errors without leaking ledger details to the caller.
func Error(c *gin.Context, err error) {
	code := errs.HTTPStatus(err)
	kind := errs.KindOf(err)
	message := err.Error()
	if kind == errs.KindInvariantViolation || kind == errs.KindInternal {
		message = "internal error"
	}
	RespondJSON(c, "error", code, message, nil, gin.H{"kind": string(kind)})
}
