package booking

import "github.com/bookline/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the statuses that occupy the timeline. Declined and
// cancelled appointments are historical and never block new bookings.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether an appointment in this status counts for
// conflict purposes.
func IsActive(s string) bool {
	return Status(s) == StatusPending || Status(s) == StatusConfirmed
}

// CanTransition validates owner-driven status changes. Pending may move
// anywhere; confirmed may still be cancelled; declined and cancelled are
// terminal.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusDeclined || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCancelled {
			return nil
		}
	}
	return httperr.Validation("invalid_status_transition")
}
