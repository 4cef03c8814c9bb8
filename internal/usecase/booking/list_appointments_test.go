package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
)

func TestListAppointments(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepo()
	seedBusiness(repo)

	put := func(id uint, date, start, end string) {
		repo.appointments[id] = &models.Appointment{
			BusinessID: 1, Date: date, StartTime: start, EndTime: end, Status: "confirmed",
		}
		repo.appointments[id].ID = id
	}
	put(1, "2030-06-17", "09:00", "09:30")
	put(2, "2030-06-17", "10:00", "10:30")
	put(3, "2030-06-18", "09:00", "09:30")
	put(4, "2030-07-01", "09:00", "09:30")

	t.Run("ByDate", func(t *testing.T) {
		out, err := NewListAppointmentsByDate(repo).Execute(ctx, 1, "2030-06-17")
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("ByDateMalformed", func(t *testing.T) {
		_, err := NewListAppointmentsByDate(repo).Execute(ctx, 1, "17-06-2030")
		assert.Equal(t, "invalid_date", httperr.CodeOf(err))
	})

	t.Run("ByMonthExcludesNextMonth", func(t *testing.T) {
		out, err := NewListAppointmentsByMonth(repo).Execute(ctx, 1, 2030, 6)
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("ByMonthRangeChecksMonth", func(t *testing.T) {
		_, err := NewListAppointmentsByMonth(repo).Execute(ctx, 1, 2030, 13)
		assert.Equal(t, "invalid_date", httperr.CodeOf(err))
	})

	t.Run("OtherBusinessInvisible", func(t *testing.T) {
		out, err := NewListAppointmentsByDate(repo).Execute(ctx, 2, "2030-06-17")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
