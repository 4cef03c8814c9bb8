package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

var errNotFound = errors.New("record not found")

// fakeRepo is an in-memory domain.Repository. The atomic write methods hold
// the mutex across the conflict re-check and the insert, mirroring the
// row-locked transaction of the real store, so the race tests exercise the
// same guarantee.
type fakeRepo struct {
	mu sync.Mutex

	businesses   map[uint]*models.Business
	services     map[uint]*models.Service
	rules        []models.AvailabilityRule
	blockedDates map[string]bool // businessID:date
	appointments map[uint]*models.Appointment
	nextID       uint

	// storeErr, when set, fails every lookup, simulating a store outage.
	storeErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		businesses:   map[uint]*models.Business{},
		services:     map[uint]*models.Service{},
		blockedDates: map[string]bool{},
		appointments: map[uint]*models.Appointment{},
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetBusinessByID(_ context.Context, id uint) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	if b, ok := f.businesses[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetBusinessBySlug(_ context.Context, slug string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	for _, b := range f.businesses {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetService(_ context.Context, businessID, serviceID uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	if s, ok := f.services[serviceID]; ok && s.BusinessID == businessID {
		cp := *s
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) RulesFor(_ context.Context, businessID uint, dayOfWeek int) ([]models.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityRule
	for _, r := range f.rules {
		if r.BusinessID == businessID && r.DayOfWeek == dayOfWeek {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) IsDateBlocked(_ context.Context, businessID uint, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blockedDates[blockKey(businessID, date)], nil
}

func (f *fakeRepo) ListAppointments(_ context.Context, businessID uint, date string, statuses []string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked(businessID, date, statuses), nil
}

func (f *fakeRepo) ListAppointmentsForRange(_ context.Context, businessID uint, fromDate, toDate string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.BusinessID == businessID && ap.Date >= fromDate && ap.Date < toDate {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, businessID, appointmentID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	if ap, ok := f.appointments[appointmentID]; ok && ap.BusinessID == businessID {
		cp := *ap
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) CreateAppointmentAtomic(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.conflictLocked(ap, 0); err != nil {
		return err
	}

	f.nextID++
	ap.ID = f.nextID
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateAppointmentAtomic(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.conflictLocked(ap, ap.ID); err != nil {
		return err
	}

	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[ap.ID]; !ok {
		return errNotFound
	}
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, businessID, appointmentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ap, ok := f.appointments[appointmentID]; ok && ap.BusinessID == businessID {
		delete(f.appointments, appointmentID)
		return nil
	}
	return errNotFound
}

func (f *fakeRepo) conflictLocked(ap *models.Appointment, excludeID uint) error {
	start, err := timeutil.ToMinutes(ap.StartTime)
	if err != nil {
		return err
	}
	end, err := timeutil.ToMinutes(ap.EndTime)
	if err != nil {
		return err
	}

	existing := f.listLocked(ap.BusinessID, ap.Date, domain.ActiveStatuses)
	busy := domain.BusyIntervals(existing)
	if _, conflict := domain.FindConflict(start, end-start, busy, excludeID); conflict {
		return httperr.Conflict("slot_conflict")
	}
	return nil
}

func (f *fakeRepo) listLocked(businessID uint, date string, statuses []string) []models.Appointment {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.BusinessID != businessID || ap.Date != date {
			continue
		}
		if len(statuses) > 0 {
			keep := false
			for _, s := range statuses {
				if ap.Status == s {
					keep = true
					break
				}
			}
			if !keep {
				continue
			}
		}
		out = append(out, *ap)
	}
	return out
}

func blockKey(businessID uint, date string) string {
	return fmt.Sprintf("%d:%s", businessID, date)
}

// fakeGate marks every phone in verified as trusted and records what was
// consumed.
type fakeGate struct {
	mu       sync.Mutex
	verified map[string]bool
	consumed []string
	err      error
}

func newFakeGate(phones ...string) *fakeGate {
	g := &fakeGate{verified: map[string]bool{}}
	for _, p := range phones {
		g.verified[p] = true
	}
	return g
}

func (g *fakeGate) IsVerified(_ context.Context, phone string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	return g.verified[phone], nil
}

func (g *fakeGate) Consume(_ context.Context, phone string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.consumed = append(g.consumed, phone)
	return nil
}

// seedBusiness wires a business, one 30-minute service, and a Monday-Friday
// 09:00-18:00 week into the repo.
func seedBusiness(repo *fakeRepo) (*models.Business, *models.Service) {
	biz := &models.Business{ID: 1, Name: "Corner Cuts", Slug: "corner-cuts", Timezone: "UTC", Active: true}
	svc := &models.Service{ID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 30, Active: true}

	repo.businesses[biz.ID] = biz
	repo.services[svc.ID] = svc
	for day := 1; day <= 5; day++ {
		repo.rules = append(repo.rules, models.AvailabilityRule{
			BusinessID: biz.ID,
			DayOfWeek:  day,
			StartTime:  "09:00",
			EndTime:    "18:00",
			Active:     true,
		})
	}
	return biz, svc
}

// futureMonday returns the first Monday at least two weeks out, so admission
// never trips the past-datetime rule regardless of when the tests run.
func futureMonday() string {
	d := time.Now().AddDate(0, 0, 14)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(timeutil.DateLayout)
}
