package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/timeutil"
)

const verifiedPhone = "09123456789"

func publicInput(date string) AdmitPublicBookingInput {
	return AdmitPublicBookingInput{
		BusinessSlug: "corner-cuts",
		ClientName:   "Dana",
		ClientPhone:  verifiedPhone,
		ServiceID:    10,
		Date:         date,
		Time:         "10:00",
	}
}

func newPublicUC(repo *fakeRepo, gate *fakeGate) *AdmitPublicBooking {
	return NewAdmitPublicBooking(repo, gate, nil, nil, nil)
}

func TestAdmitPublicBooking(t *testing.T) {
	ctx := context.Background()
	date := futureMonday()

	t.Run("Success", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)
		gate := newFakeGate(verifiedPhone)

		ap, err := newPublicUC(repo, gate).Execute(ctx, publicInput(date))
		require.NoError(t, err)

		assert.NotEmpty(t, ap.Code)
		assert.Equal(t, string(domain.StatusPending), ap.Status)
		assert.Equal(t, "10:00", ap.StartTime)
		assert.Equal(t, "10:30", ap.EndTime)
		require.NotNil(t, ap.ServiceID)
		assert.Equal(t, uint(10), *ap.ServiceID)
		assert.Equal(t, []string{verifiedPhone}, gate.consumed)
	})

	t.Run("RejectionOrderAndCodes", func(t *testing.T) {
		repo := newFakeRepo()
		biz, _ := seedBusiness(repo)
		repo.blockedDates[blockKey(biz.ID, "2031-01-06")] = true // a Monday

		inactive := *repo.services[10]
		inactive.ID = 11
		inactive.Active = false
		repo.services[11] = &inactive

		cases := []struct {
			name   string
			mutate func(*AdmitPublicBookingInput)
			code   string
			kind   httperr.Kind
		}{
			{"MissingName", func(in *AdmitPublicBookingInput) { in.ClientName = "" }, "missing_fields", httperr.KindValidation},
			{"MissingService", func(in *AdmitPublicBookingInput) { in.ServiceID = 0 }, "missing_fields", httperr.KindValidation},
			{"BadPhone", func(in *AdmitPublicBookingInput) { in.ClientPhone = "12345" }, "invalid_phone", httperr.KindValidation},
			{"UnverifiedPhone", func(in *AdmitPublicBookingInput) { in.ClientPhone = "09999999999" }, "phone_not_verified", httperr.KindAuthorization},
			{"PastDateTime", func(in *AdmitPublicBookingInput) { in.Date = "2020-01-06" }, "past_date_time", httperr.KindAvailability},
			{"UnknownBusiness", func(in *AdmitPublicBookingInput) { in.BusinessSlug = "nope" }, "business_not_found", httperr.KindNotFound},
			{"UnknownService", func(in *AdmitPublicBookingInput) { in.ServiceID = 99 }, "service_not_found", httperr.KindNotFound},
			{"InactiveService", func(in *AdmitPublicBookingInput) { in.ServiceID = 11 }, "service_not_found", httperr.KindNotFound},
			{"ClosedDay", func(in *AdmitPublicBookingInput) { in.Date = sundayAfter(date) }, "no_availability_that_day", httperr.KindAvailability},
			{"OutsideWindow", func(in *AdmitPublicBookingInput) { in.Time = "08:00" }, "time_not_available", httperr.KindAvailability},
			{"RunsPastClose", func(in *AdmitPublicBookingInput) { in.Time = "17:45" }, "time_not_available", httperr.KindAvailability},
			{"BlockedDate", func(in *AdmitPublicBookingInput) { in.Date = "2031-01-06" }, "date_blocked", httperr.KindAvailability},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := publicInput(date)
				tc.mutate(&in)

				_, err := newPublicUC(repo, newFakeGate(verifiedPhone)).Execute(ctx, in)
				require.Error(t, err)
				assert.Equal(t, tc.code, httperr.CodeOf(err))
				assert.True(t, httperr.IsKind(err, tc.kind), "kind mismatch for %s", tc.code)
			})
		}
	})

	t.Run("PhoneShapeBeatsVerification", func(t *testing.T) {
		// A malformed phone that also never verified reports the shape
		// problem, not the missing verification.
		repo := newFakeRepo()
		seedBusiness(repo)

		in := publicInput(date)
		in.ClientPhone = "12345"

		_, err := newPublicUC(repo, newFakeGate()).Execute(ctx, in)
		assert.Equal(t, "invalid_phone", httperr.CodeOf(err))
	})

	t.Run("GateStoreFailureIsTransient", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)
		gate := newFakeGate(verifiedPhone)
		gate.err = httperr.Transient("store_unavailable")

		_, err := newPublicUC(repo, gate).Execute(ctx, publicInput(date))
		require.Error(t, err)
		assert.Equal(t, "store_unavailable", httperr.CodeOf(err))
		assert.True(t, httperr.IsKind(err, httperr.KindTransient))
	})

	t.Run("LookupOutageIsTransientNotNotFound", func(t *testing.T) {
		// A store failure while loading the business must surface as
		// retriable, not masquerade as a 404.
		repo := newFakeRepo()
		seedBusiness(repo)
		repo.storeErr = httperr.Transient("store_unavailable")

		_, err := newPublicUC(repo, newFakeGate(verifiedPhone)).Execute(ctx, publicInput(date))
		require.Error(t, err)
		assert.Equal(t, "store_unavailable", httperr.CodeOf(err))
		assert.True(t, httperr.IsKind(err, httperr.KindTransient))
	})

	t.Run("TakenSlotConflicts", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)
		gate := newFakeGate(verifiedPhone)
		uc := newPublicUC(repo, gate)

		_, err := uc.Execute(ctx, publicInput(date))
		require.NoError(t, err)

		in := publicInput(date)
		in.Time = "10:15" // overlaps 10:00-10:30
		_, err = uc.Execute(ctx, in)
		require.Error(t, err)
		assert.Equal(t, "slot_conflict", httperr.CodeOf(err))
		assert.True(t, httperr.IsKind(err, httperr.KindConflict))

		// Back-to-back is fine.
		in.Time = "10:30"
		_, err = uc.Execute(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("CancelledAppointmentFreesSlot", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)
		uc := newPublicUC(repo, newFakeGate(verifiedPhone))

		ap, err := uc.Execute(ctx, publicInput(date))
		require.NoError(t, err)

		ap.Status = string(domain.StatusCancelled)
		require.NoError(t, repo.UpdateAppointment(ctx, ap))

		_, err = uc.Execute(ctx, publicInput(date))
		assert.NoError(t, err)
	})

	t.Run("RacingRequestsAdmitExactlyOne", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)
		uc := newPublicUC(repo, newFakeGate(verifiedPhone))

		const n = 16
		var wg sync.WaitGroup
		errs := make([]error, n)

		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = uc.Execute(ctx, publicInput(date))
			}(i)
		}
		wg.Wait()

		admitted := 0
		for _, err := range errs {
			if err == nil {
				admitted++
				continue
			}
			assert.Equal(t, "slot_conflict", httperr.CodeOf(err))
		}
		assert.Equal(t, 1, admitted)
	})
}

// sundayAfter walks forward from a YYYY-MM-DD date to the next Sunday, which
// the seeded week leaves without rules.
func sundayAfter(date string) string {
	d, _ := time.Parse(timeutil.DateLayout, date)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(timeutil.DateLayout)
}
