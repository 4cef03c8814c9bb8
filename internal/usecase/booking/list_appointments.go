package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/dto"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	businessID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	day, err := time.Parse(timeutil.DateLayout, date)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	next := day.AddDate(0, 0, 1).Format(timeutil.DateLayout)

	appointments, err := uc.repo.ListAppointmentsForRange(ctx, businessID, date, next)
	if err != nil {
		return nil, httperr.Transient("store_unavailable")
	}

	return toListDTOs(appointments), nil
}

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(repo domain.Repository) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	businessID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 {
		return nil, httperr.Validation("invalid_date")
	}

	from := fmt.Sprintf("%04d-%02d-01", year, month)
	start, err := time.Parse(timeutil.DateLayout, from)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	to := start.AddDate(0, 1, 0).Format(timeutil.DateLayout)

	appointments, err := uc.repo.ListAppointmentsForRange(ctx, businessID, from, to)
	if err != nil {
		return nil, httperr.Transient("store_unavailable")
	}

	return toListDTOs(appointments), nil
}

func toListDTOs(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:          ap.ID,
			Code:        ap.Code,
			Date:        ap.Date,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
		}
		out = append(out, item)
	}
	return out
}
