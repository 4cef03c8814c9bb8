package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/audit"
	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/infra/cache"
	"github.com/bookline/booking-api/internal/metrics"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/notify"
	"github.com/bookline/booking-api/internal/timeutil"
	"github.com/bookline/booking-api/internal/timezone"
	"github.com/bookline/booking-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateOwnerAppointmentInput struct {
	BusinessID uint
	UserID     uint

	ClientName  string
	ClientPhone string

	// Either ServiceID or an explicit EndTime; manually created
	// appointments may not reference the catalog at all.
	ServiceID *uint
	EndTime   string

	Date   string
	Time   string
	Status string // defaults to confirmed
	Note   string
}

// ======================================================
// USE CASE
// ======================================================

// CreateOwnerAppointment is the owner-direct flow: same schedule validation
// as the public path minus the verification gate, with a caller-chosen
// status.
type CreateOwnerAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	slots  *cache.SlotCache
	events *notify.Publisher
}

func NewCreateOwnerAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slots *cache.SlotCache,
	events *notify.Publisher,
) *CreateOwnerAppointment {
	return &CreateOwnerAppointment{
		repo:   repo,
		audit:  audit,
		slots:  slots,
		events: events,
	}
}

func (uc *CreateOwnerAppointment) Execute(
	ctx context.Context,
	in CreateOwnerAppointmentInput,
) (*models.Appointment, error) {

	if in.ClientName == "" || in.ClientPhone == "" || in.Date == "" || in.Time == "" {
		return nil, fail("missing_fields", httperr.Validation("missing_fields"))
	}
	if in.ServiceID == nil && in.EndTime == "" {
		return nil, fail("missing_fields", httperr.Validation("missing_fields"))
	}

	if !validators.IsValidMobile(in.ClientPhone) {
		return nil, fail("invalid_phone", httperr.Validation("invalid_phone"))
	}

	status := in.Status
	if status == "" {
		status = string(domain.StatusConfirmed)
	}
	if !domain.IsValidStatus(status) {
		return nil, fail("invalid_status", httperr.Validation("invalid_status"))
	}

	startTime, err := timeutil.Normalize(in.Time)
	if err != nil {
		return nil, fail("malformed_time", httperr.Validation("malformed_time"))
	}

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		e := lookupFailure(err, "business_not_found")
		return nil, fail(httperr.CodeOf(e), e)
	}
	if !biz.Active {
		return nil, fail("business_not_found", httperr.NotFoundErr("business_not_found"))
	}

	past, err := timeutil.IsPastDateTime(in.Date, startTime, timezone.NowIn(biz.Timezone))
	if err != nil {
		return nil, fail("invalid_date", httperr.Validation("invalid_date"))
	}
	if past {
		return nil, fail("past_date_time", httperr.Availability("past_date_time"))
	}

	startMin, err := timeutil.ToMinutes(startTime)
	if err != nil {
		return nil, fail("malformed_time", httperr.Validation("malformed_time"))
	}

	var serviceID *uint
	var endTime string

	if in.ServiceID != nil {
		svc, err := uc.repo.GetService(ctx, biz.ID, *in.ServiceID)
		if err != nil {
			e := lookupFailure(err, "service_not_found")
			return nil, fail(httperr.CodeOf(e), e)
		}
		if !svc.Active {
			return nil, fail("service_not_found", httperr.NotFoundErr("service_not_found"))
		}
		serviceID = &svc.ID
		endTime, err = timeutil.FromMinutes(startMin + svc.DurationMinutes)
		if err != nil {
			return nil, fail("time_not_available", httperr.Availability("time_not_available"))
		}
	} else {
		endTime, err = timeutil.Normalize(in.EndTime)
		if err != nil {
			return nil, fail("malformed_time", httperr.Validation("malformed_time"))
		}
	}

	endMin, err := timeutil.ToMinutes(endTime)
	if err != nil || endMin <= startMin {
		return nil, fail("malformed_time", httperr.Validation("malformed_time"))
	}

	if err := checkTimeline(ctx, uc.repo, biz.ID, in.Date, startMin, endMin-startMin); err != nil {
		return nil, fail(httperr.CodeOf(err), err)
	}

	ap := &models.Appointment{
		Code:        uuid.NewString(),
		BusinessID:  biz.ID,
		ServiceID:   serviceID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		Date:        in.Date,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      status,
		Note:        in.Note,
	}

	if err := uc.repo.CreateAppointmentAtomic(ctx, ap); err != nil {
		return nil, fail(httperr.CodeOf(err), err)
	}

	metrics.IncAdmitted("owner")
	uc.slots.InvalidateBusiness(ctx, biz.ID)
	uc.audit.Dispatch(audit.Event{
		BusinessID: biz.ID,
		UserID:     &in.UserID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})
	uc.events.Publish(notify.Event{
		Action:        "appointment_created",
		BusinessID:    biz.ID,
		AppointmentID: ap.ID,
		Date:          ap.Date,
		StartTime:     ap.StartTime,
		Status:        ap.Status,
	})

	return ap, nil
}
