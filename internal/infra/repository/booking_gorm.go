package repository

import (
	"context"
	"errors"
	"hash/fnv"

	"gorm.io/gorm"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *BookingGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, id).Error; err != nil {
		return nil, lookupErr(err, "business_not_found")
	}
	return &biz, nil
}

func (r *BookingGormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&biz).Error; err != nil {
		return nil, lookupErr(err, "business_not_found")
	}
	return &biz, nil
}

// lookupErr keeps absence and outage distinguishable: a missing row is a
// deterministic 404, anything else (timeout, lost connection) stays
// retriable.
func lookupErr(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(code)
	}
	return httperr.Transient("store_unavailable")
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, lookupErr(err, "service_not_found")
	}
	return &svc, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) RulesFor(
	ctx context.Context,
	businessID uint,
	dayOfWeek int,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND day_of_week = ?", businessID, dayOfWeek).
		Order("start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// IsDateBlocked reads by business_id only. Legacy user-keyed rows are
// reconciled by scripts/migrate_legacy_blocks, never consulted at runtime.
func (r *BookingGormRepository) IsDateBlocked(
	ctx context.Context,
	businessID uint,
	date string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UnavailableDate{}).
		Where("business_id = ? AND date = ?", businessID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *BookingGormRepository) ListAppointments(
	ctx context.Context,
	businessID uint,
	date string,
	statuses []string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	q := r.db.WithContext(ctx).
		Where("business_id = ? AND date = ?", businessID, date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) ListAppointmentsForRange(
	ctx context.Context,
	businessID uint,
	fromDate string,
	toDate string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where(
			"business_id = ? AND date >= ? AND date < ?",
			businessID, fromDate, toDate,
		).
		Order("date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, lookupErr(err, "appointment_not_found")
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

// CreateAppointmentAtomic closes the read-check/write race: inside a single
// transaction it takes row locks on the business+date timeline, re-runs the
// overlap check, and inserts. Two concurrent requests for overlapping slots
// serialize on the locks, so at most one commits.
func (r *BookingGormRepository) CreateAppointmentAtomic(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.withConflictCheck(ctx, ap, 0, func(tx *gorm.DB) error {
		return tx.Create(ap).Error
	})
}

func (r *BookingGormRepository) UpdateAppointmentAtomic(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.withConflictCheck(ctx, ap, ap.ID, func(tx *gorm.DB) error {
		return tx.Save(ap).Error
	})
}

func (r *BookingGormRepository) withConflictCheck(
	ctx context.Context,
	ap *models.Appointment,
	excludeID uint,
	write func(tx *gorm.DB) error,
) error {

	start, err := timeutil.ToMinutes(ap.StartTime)
	if err != nil {
		return httperr.Validation("malformed_time")
	}
	end, err := timeutil.ToMinutes(ap.EndTime)
	if err != nil || end <= start {
		return httperr.Validation("malformed_time")
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := lockTimeline(tx, ap.BusinessID, ap.Date); err != nil {
			return err
		}

		var existing []models.Appointment
		if err := tx.
			Where(
				"business_id = ? AND date = ? AND status IN ?",
				ap.BusinessID, ap.Date, domain.ActiveStatuses,
			).
			Order("id ASC").
			Find(&existing).Error; err != nil {
			return err
		}

		if _, found := domain.FindConflict(start, end-start, domain.BusyIntervals(existing), excludeID); found {
			return httperr.Conflict("slot_conflict")
		}

		return write(tx)
	})

	if err != nil {
		var e httperr.Error
		if errors.As(err, &e) {
			return err
		}
		return httperr.Transient("store_unavailable")
	}
	return nil
}

// lockTimeline serializes writers on one (business, date) timeline before
// the conflict re-check. Row locks alone cannot do this: while the timeline
// has no rows yet, two transactions each lock nothing, each see no
// conflict, and both insert. The transaction-scoped advisory lock also
// covers the empty timeline, so the re-check and the write behave as one
// atomic unit. sqlite (used in tests) allows a single writer per database
// and needs nothing extra.
func lockTimeline(tx *gorm.DB, businessID uint, date string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec(
		"SELECT pg_advisory_xact_lock(?, ?)",
		int32(businessID), dateLockKey(date),
	).Error
}

func dateLockKey(date string) int32 {
	h := fnv.New32a()
	h.Write([]byte(date))
	return int32(h.Sum32())
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *BookingGormRepository) DeleteAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		Delete(&models.Appointment{}).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
