package booking

import (
	"context"

	"github.com/bookline/booking-api/internal/audit"
	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/infra/cache"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/notify"
	"github.com/bookline/booking-api/internal/timeutil"
	"github.com/bookline/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// RescheduleAppointmentInput is a partial update; nil/empty fields keep the
// stored value.
type RescheduleAppointmentInput struct {
	BusinessID    uint
	UserID        uint
	AppointmentID uint

	Date      string
	Time      string
	ServiceID *uint
	EndTime   string
}

// ======================================================
// USE CASE
// ======================================================

// RescheduleAppointment re-runs the schedule validation of admission
// against the proposed date/time/service, excluding the appointment's own
// row from the conflict check so a no-op edit never conflicts with itself.
type RescheduleAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	slots  *cache.SlotCache
	events *notify.Publisher
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slots *cache.SlotCache,
	events *notify.Publisher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  audit,
		slots:  slots,
		events: events,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, lookupFailure(err, "appointment_not_found")
	}
	if !domain.IsActive(ap.Status) {
		return nil, httperr.Validation("appointment_not_editable")
	}

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, lookupFailure(err, "business_not_found")
	}
	if !biz.Active {
		return nil, httperr.NotFoundErr("business_not_found")
	}

	date := ap.Date
	if in.Date != "" {
		date = in.Date
	}

	startTime := ap.StartTime
	if in.Time != "" {
		startTime, err = timeutil.Normalize(in.Time)
		if err != nil {
			return nil, httperr.Validation("malformed_time")
		}
	}

	past, err := timeutil.IsPastDateTime(date, startTime, timezone.NowIn(biz.Timezone))
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	if past {
		return nil, httperr.Availability("past_date_time")
	}

	startMin, err := timeutil.ToMinutes(startTime)
	if err != nil {
		return nil, httperr.Validation("malformed_time")
	}

	serviceID := ap.ServiceID
	endTime := ap.EndTime

	switch {
	case in.ServiceID != nil:
		svc, err := uc.repo.GetService(ctx, biz.ID, *in.ServiceID)
		if err != nil {
			return nil, lookupFailure(err, "service_not_found")
		}
		if !svc.Active {
			return nil, httperr.NotFoundErr("service_not_found")
		}
		serviceID = &svc.ID
		endTime, err = timeutil.FromMinutes(startMin + svc.DurationMinutes)
		if err != nil {
			return nil, httperr.Availability("time_not_available")
		}

	case in.EndTime != "":
		endTime, err = timeutil.Normalize(in.EndTime)
		if err != nil {
			return nil, httperr.Validation("malformed_time")
		}
		serviceID = nil

	case in.Time != "" && ap.ServiceID != nil:
		// Time moved but the service stayed: shift the end by the stored
		// service duration.
		svc, err := uc.repo.GetService(ctx, biz.ID, *ap.ServiceID)
		if err != nil {
			return nil, lookupFailure(err, "service_not_found")
		}
		endTime, err = timeutil.FromMinutes(startMin + svc.DurationMinutes)
		if err != nil {
			return nil, httperr.Availability("time_not_available")
		}

	case in.Time != "":
		// Explicit-duration appointment: preserve the stored length.
		oldStart, err := timeutil.ToMinutes(ap.StartTime)
		if err != nil {
			return nil, httperr.Validation("malformed_time")
		}
		oldEnd, err := timeutil.ToMinutes(ap.EndTime)
		if err != nil {
			return nil, httperr.Validation("malformed_time")
		}
		endTime, err = timeutil.FromMinutes(startMin + (oldEnd - oldStart))
		if err != nil {
			return nil, httperr.Availability("time_not_available")
		}
	}

	endMin, err := timeutil.ToMinutes(endTime)
	if err != nil || endMin <= startMin {
		return nil, httperr.Validation("malformed_time")
	}

	if err := checkTimeline(ctx, uc.repo, biz.ID, date, startMin, endMin-startMin); err != nil {
		return nil, err
	}

	ap.Date = date
	ap.StartTime = startTime
	ap.EndTime = endTime
	ap.ServiceID = serviceID

	if err := uc.repo.UpdateAppointmentAtomic(ctx, ap); err != nil {
		return nil, err
	}

	uc.slots.InvalidateBusiness(ctx, biz.ID)
	uc.audit.Dispatch(audit.Event{
		BusinessID: biz.ID,
		UserID:     &in.UserID,
		Action:     "appointment_rescheduled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})
	uc.events.Publish(notify.Event{
		Action:        "appointment_rescheduled",
		BusinessID:    biz.ID,
		AppointmentID: ap.ID,
		Date:          ap.Date,
		StartTime:     ap.StartTime,
		Status:        ap.Status,
	})

	return ap, nil
}
