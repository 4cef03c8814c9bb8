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

type AdmitPublicBookingInput struct {
	BusinessSlug string

	ClientName  string
	ClientPhone string

	ServiceID uint

	Date string // YYYY-MM-DD
	Time string // HH:MM
	Note string
}

// ======================================================
// USE CASE
// ======================================================

// AdmitPublicBooking is the anonymous-client admission path. The rules run
// in a fixed order and stop at the first failure; the order is part of the
// product (one actionable message at a time) and must not be reshuffled.
type AdmitPublicBooking struct {
	repo   domain.Repository
	gate   VerificationGate
	audit  *audit.Dispatcher
	slots  *cache.SlotCache
	events *notify.Publisher
}

func NewAdmitPublicBooking(
	repo domain.Repository,
	gate VerificationGate,
	audit *audit.Dispatcher,
	slots *cache.SlotCache,
	events *notify.Publisher,
) *AdmitPublicBooking {
	return &AdmitPublicBooking{
		repo:   repo,
		gate:   gate,
		audit:  audit,
		slots:  slots,
		events: events,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AdmitPublicBooking) Execute(
	ctx context.Context,
	in AdmitPublicBookingInput,
) (*models.Appointment, error) {

	// 1. Required fields
	if in.ClientName == "" || in.ClientPhone == "" || in.Date == "" || in.Time == "" || in.ServiceID == 0 {
		return nil, fail("missing_fields", httperr.Validation("missing_fields"))
	}

	// 2. Phone shape
	if !validators.IsValidMobile(in.ClientPhone) {
		return nil, fail("invalid_phone", httperr.Validation("invalid_phone"))
	}

	// 3. Verified OTP within the trust window
	verified, err := uc.gate.IsVerified(ctx, in.ClientPhone)
	if err != nil {
		return nil, fail("store_unavailable", err)
	}
	if !verified {
		return nil, fail("phone_not_verified", httperr.Authorization("phone_not_verified"))
	}

	startTime, err := timeutil.Normalize(in.Time)
	if err != nil {
		return nil, fail("malformed_time", httperr.Validation("malformed_time"))
	}

	// The business is loaded ahead of step 4 only to localize "now"; its
	// own existence check stays at step 5 so error precedence holds.
	biz, bizErr := uc.repo.GetBusinessBySlug(ctx, in.BusinessSlug)
	tz := ""
	if biz != nil {
		tz = biz.Timezone
	}

	// 4. Not in the past
	past, err := timeutil.IsPastDateTime(in.Date, startTime, timezone.NowIn(tz))
	if err != nil {
		return nil, fail("invalid_date", httperr.Validation("invalid_date"))
	}
	if past {
		return nil, fail("past_date_time", httperr.Availability("past_date_time"))
	}

	// 5. Business exists and is active
	if bizErr != nil {
		e := lookupFailure(bizErr, "business_not_found")
		return nil, fail(httperr.CodeOf(e), e)
	}
	if !biz.Active {
		return nil, fail("business_not_found", httperr.NotFoundErr("business_not_found"))
	}

	// 6. Service exists, belongs to the business, is active
	svc, err := uc.repo.GetService(ctx, biz.ID, in.ServiceID)
	if err != nil {
		e := lookupFailure(err, "service_not_found")
		return nil, fail(httperr.CodeOf(e), e)
	}
	if !svc.Active {
		return nil, fail("service_not_found", httperr.NotFoundErr("service_not_found"))
	}

	startMin, err := timeutil.ToMinutes(startTime)
	if err != nil {
		return nil, fail("malformed_time", httperr.Validation("malformed_time"))
	}
	endMin := startMin + svc.DurationMinutes
	endTime, err := timeutil.FromMinutes(endMin)
	if err != nil {
		return nil, fail("time_not_available", httperr.Availability("time_not_available"))
	}

	// 7-9. Weekly rules, window fit, blocked date
	if err := checkTimeline(ctx, uc.repo, biz.ID, in.Date, startMin, svc.DurationMinutes); err != nil {
		return nil, fail(httperr.CodeOf(err), err)
	}

	// 10. Conflict check + insert, atomically
	ap := &models.Appointment{
		Code:        uuid.NewString(),
		BusinessID:  biz.ID,
		ServiceID:   &svc.ID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		Date:        in.Date,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      string(domain.StatusPending),
		Note:        in.Note,
	}

	if err := uc.repo.CreateAppointmentAtomic(ctx, ap); err != nil {
		return nil, fail(httperr.CodeOf(err), err)
	}

	// The verification is spent; failing to prune it never fails the
	// booking that already committed.
	_ = uc.gate.Consume(ctx, in.ClientPhone)

	metrics.IncAdmitted("public")
	uc.slots.InvalidateBusiness(ctx, biz.ID)
	uc.audit.Dispatch(audit.Event{
		BusinessID: biz.ID,
		Action:     "appointment_requested",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})
	uc.events.Publish(notify.Event{
		Action:        "appointment_requested",
		BusinessID:    biz.ID,
		AppointmentID: ap.ID,
		Date:          ap.Date,
		StartTime:     ap.StartTime,
		Status:        ap.Status,
	})

	return ap, nil
}

func fail(code string, err error) error {
	metrics.IncRejected(code)
	return err
}
