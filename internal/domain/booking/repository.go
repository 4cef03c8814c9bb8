package booking

import (
	"context"

	"github.com/bookline/booking-api/internal/models"
)

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Availability --------
	RulesFor(
		ctx context.Context,
		businessID uint,
		dayOfWeek int,
	) ([]models.AvailabilityRule, error)

	IsDateBlocked(
		ctx context.Context,
		businessID uint,
		date string,
	) (bool, error)

	// -------- Appointment (read) --------
	ListAppointments(
		ctx context.Context,
		businessID uint,
		date string,
		statuses []string,
	) ([]models.Appointment, error)

	ListAppointmentsForRange(
		ctx context.Context,
		businessID uint,
		fromDate string,
		toDate string,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// -------- Appointment (write) --------

	// CreateAppointmentAtomic re-runs the conflict check against the
	// business+date timeline and inserts in one transaction, so two racing
	// requests for overlapping slots cannot both land.
	CreateAppointmentAtomic(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointmentAtomic is the reschedule counterpart: same locked
	// re-check, excluding the appointment's own row.
	UpdateAppointmentAtomic(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) error
}
