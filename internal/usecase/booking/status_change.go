package booking

import (
	"context"

	"github.com/bookline/booking-api/internal/audit"
	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/infra/cache"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/notify"
	"github.com/bookline/booking-api/internal/timezone"
)

// ChangeAppointmentStatus applies owner-driven transitions (confirm,
// decline, cancel). Status changes never re-run slot validation; freeing or
// keeping the slot follows from the status alone.
type ChangeAppointmentStatus struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	slots  *cache.SlotCache
	events *notify.Publisher
}

func NewChangeAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slots *cache.SlotCache,
	events *notify.Publisher,
) *ChangeAppointmentStatus {
	return &ChangeAppointmentStatus{
		repo:   repo,
		audit:  audit,
		slots:  slots,
		events: events,
	}
}

func (uc *ChangeAppointmentStatus) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
	newStatus string,
) (*models.Appointment, error) {

	if !domain.IsValidStatus(newStatus) {
		return nil, httperr.Validation("invalid_status")
	}

	ap, err := uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, lookupFailure(err, "appointment_not_found")
	}

	if err := domain.CanTransition(domain.Status(ap.Status), domain.Status(newStatus)); err != nil {
		return nil, err
	}

	ap.Status = newStatus
	if domain.Status(newStatus) == domain.StatusCancelled {
		biz, err := uc.repo.GetBusinessByID(ctx, businessID)
		tz := ""
		if err == nil {
			tz = biz.Timezone
		}
		now := timezone.NowIn(tz)
		ap.CancelledAt = &now
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.Transient("store_unavailable")
	}

	// A freed or re-occupied slot changes the public availability view.
	uc.slots.InvalidateBusiness(ctx, businessID)
	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "appointment_" + newStatus,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})
	uc.events.Publish(notify.Event{
		Action:        "appointment_" + newStatus,
		BusinessID:    businessID,
		AppointmentID: ap.ID,
		Date:          ap.Date,
		StartTime:     ap.StartTime,
		Status:        ap.Status,
	})

	return ap, nil
}

// DeleteAppointment is the explicit owner hard-delete; everything else only
// ever transitions status.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	slots *cache.SlotCache
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slots *cache.SlotCache,
) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit, slots: slots}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
) error {

	if _, err := uc.repo.GetAppointment(ctx, businessID, appointmentID); err != nil {
		return lookupFailure(err, "appointment_not_found")
	}

	if err := uc.repo.DeleteAppointment(ctx, businessID, appointmentID); err != nil {
		return httperr.Transient("store_unavailable")
	}

	uc.slots.InvalidateBusiness(ctx, businessID)
	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "appointment_deleted",
		Entity:     "appointment",
		EntityID:   &appointmentID,
	})

	return nil
}
