package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
)

func ownerInput(date string, serviceID uint) CreateOwnerAppointmentInput {
	in := CreateOwnerAppointmentInput{
		BusinessID:  1,
		UserID:      7,
		ClientName:  "Walk-in",
		ClientPhone: verifiedPhone,
		Date:        date,
		Time:        "11:00",
	}
	if serviceID != 0 {
		in.ServiceID = &serviceID
	}
	return in
}

func TestCreateOwnerAppointment(t *testing.T) {
	ctx := context.Background()
	date := futureMonday()

	t.Run("DefaultsToConfirmed", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)

		ap, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, ownerInput(date, 10))
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
		assert.Equal(t, "11:30", ap.EndTime)
	})

	t.Run("NoVerificationRequired", func(t *testing.T) {
		// The owner path has no gate collaborator at all; a phone that never
		// verified still books.
		repo := newFakeRepo()
		seedBusiness(repo)

		in := ownerInput(date, 10)
		in.ClientPhone = "09111111111"
		_, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("ExplicitEndTimeWithoutService", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)

		in := ownerInput(date, 0)
		in.EndTime = "12:15"
		ap, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, in)
		require.NoError(t, err)
		assert.Nil(t, ap.ServiceID)
		assert.Equal(t, "12:15", ap.EndTime)
	})

	t.Run("NeitherServiceNorEndTime", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)

		_, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, ownerInput(date, 0))
		assert.Equal(t, "missing_fields", httperr.CodeOf(err))
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)

		in := ownerInput(date, 0)
		in.EndTime = "10:00"
		_, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, in)
		assert.Equal(t, "malformed_time", httperr.CodeOf(err))
	})

	t.Run("ExplicitStatusKept", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)

		in := ownerInput(date, 10)
		in.Status = string(domain.StatusPending)
		ap, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusPending), ap.Status)
	})

	t.Run("StillValidatesSchedule", func(t *testing.T) {
		repo := newFakeRepo()
		seedBusiness(repo)

		in := ownerInput(date, 10)
		in.Time = "22:00"
		_, err := NewCreateOwnerAppointment(repo, nil, nil, nil).Execute(ctx, in)
		assert.Equal(t, "time_not_available", httperr.CodeOf(err))
	})
}
