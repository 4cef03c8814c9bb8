package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// statusFor maps the taxonomy onto HTTP. Conflict is 409 so clients know a
// single re-fetch-and-resubmit is the right reaction; Transient is 503 and
// also retriable.
func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindAvailability:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

var messages = map[string]string{
	"missing_fields":            "Required fields are missing.",
	"invalid_phone":             "Phone number is not a valid mobile number.",
	"phone_not_verified":        "Phone number has not been verified.",
	"past_date_time":            "The requested date or time is in the past.",
	"business_not_found":        "Business not found.",
	"service_not_found":         "Service not found.",
	"appointment_not_found":     "Appointment not found.",
	"no_availability_that_day":  "No availability on that day of the week.",
	"time_not_available":        "The requested time is outside opening hours.",
	"date_blocked":              "That date is not open for bookings.",
	"slot_conflict":             "The requested slot is already taken.",
	"rate_limited":              "Too many requests, slow down.",
	"store_unavailable":         "Temporary storage problem, please retry.",
	"invalid_status_transition": "The appointment cannot move to that status.",
	"overlapping_rules":         "Availability rules for the same day overlap.",
}

// WriteError renders a taxonomy error as JSON; anything that is not an
// httperr.Error becomes a 500 with a generic code.
func WriteError(c *gin.Context, err error) {
	var e Error
	if !errors.As(err, &e) {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	msg, ok := messages[e.Code]
	if !ok {
		msg = "Request rejected."
	}
	Write(c, statusFor(e.Kind), e.Code, msg)
}
