package booking

import (
	"context"
	"time"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/infra/cache"
	"github.com/bookline/booking-api/internal/metrics"
	"github.com/bookline/booking-api/internal/timeutil"
	"github.com/bookline/booking-api/internal/timezone"
)

// ======================================================
// OUTPUT
// ======================================================

type ServiceSummary struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

type AvailabilityResult struct {
	Date                 string         `json:"date"`
	Service              ServiceSummary `json:"service"`
	AvailableSlots       []string       `json:"available_slots"`
	TotalSlotsConsidered int            `json:"total_slots_considered"`
}

// ======================================================
// USE CASE
// ======================================================

// GetAvailability is the read side the public booking page drives: generate
// raw candidates from the weekly rules, then strike out blocked dates, past
// times, and slots taken by pending/confirmed appointments. This read is
// advisory only; admission re-validates everything.
type GetAvailability struct {
	repo  domain.Repository
	slots *cache.SlotCache
}

func NewGetAvailability(repo domain.Repository, slots *cache.SlotCache) *GetAvailability {
	return &GetAvailability{repo: repo, slots: slots}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	businessSlug string,
	serviceID uint,
	date string,
) (*AvailabilityResult, error) {

	biz, err := uc.repo.GetBusinessBySlug(ctx, businessSlug)
	if err != nil {
		return nil, lookupFailure(err, "business_not_found")
	}
	if !biz.Active {
		return nil, httperr.NotFoundErr("business_not_found")
	}

	svc, err := uc.repo.GetService(ctx, biz.ID, serviceID)
	if err != nil {
		return nil, lookupFailure(err, "service_not_found")
	}
	if !svc.Active {
		return nil, httperr.NotFoundErr("service_not_found")
	}

	day, err := time.Parse(timeutil.DateLayout, date)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}

	result := &AvailabilityResult{
		Date: date,
		Service: ServiceSummary{
			ID:              svc.ID,
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
		},
		AvailableSlots: []string{},
	}

	now := timezone.NowIn(biz.Timezone)

	// Past dates are an empty list, not an error.
	past, err := timeutil.IsPastDate(date, now)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	if past {
		return result, nil
	}

	blocked, err := uc.repo.IsDateBlocked(ctx, biz.ID, date)
	if err != nil {
		return nil, httperr.Transient("store_unavailable")
	}
	if blocked {
		return result, nil
	}

	isToday := date == now.Format(timeutil.DateLayout)
	nowMin := now.Hour()*60 + now.Minute()

	// The cached payload never carries the elapsed-time filter: a slot's
	// start keeps passing while the entry lives, so the filter runs on
	// every read, hit or miss.
	var cached cachedAvailability
	if uc.slots.Get(ctx, biz.ID, date, svc.ID, &cached) {
		metrics.IncSlotQuery("hit")
		result.AvailableSlots = filterElapsed(cached.Slots, isToday, nowMin)
		result.TotalSlotsConsidered = cached.Considered
		return result, nil
	}
	metrics.IncSlotQuery("miss")

	rules, err := uc.repo.RulesFor(ctx, biz.ID, int(day.Weekday()))
	if err != nil {
		return nil, httperr.Transient("store_unavailable")
	}

	candidates, err := domain.GenerateSlots(rules, svc.DurationMinutes, day)
	if err != nil {
		return nil, httperr.Validation("invalid_duration")
	}
	result.TotalSlotsConsidered = len(candidates)

	appointments, err := uc.repo.ListAppointments(ctx, biz.ID, date, domain.ActiveStatuses)
	if err != nil {
		return nil, httperr.Transient("store_unavailable")
	}
	busy := domain.BusyIntervals(appointments)

	seen := make(map[string]bool, len(candidates))
	free := []string{}
	for _, slot := range candidates {
		if seen[slot] {
			continue
		}
		seen[slot] = true

		start, err := timeutil.ToMinutes(slot)
		if err != nil {
			continue
		}
		if _, conflict := domain.FindConflict(start, svc.DurationMinutes, busy, 0); conflict {
			continue
		}
		free = append(free, slot)
	}

	uc.slots.Put(ctx, biz.ID, date, svc.ID, cachedAvailability{
		Slots:      free,
		Considered: result.TotalSlotsConsidered,
	})

	result.AvailableSlots = filterElapsed(free, isToday, nowMin)
	return result, nil
}

// filterElapsed strikes out start times at or before the business-local
// current minute.
func filterElapsed(slots []string, isToday bool, nowMin int) []string {
	if !isToday {
		if slots == nil {
			return []string{}
		}
		return slots
	}

	out := []string{}
	for _, slot := range slots {
		start, err := timeutil.ToMinutes(slot)
		if err != nil || start <= nowMin {
			continue
		}
		out = append(out, slot)
	}
	return out
}

type cachedAvailability struct {
	Slots      []string `json:"slots"`
	Considered int      `json:"considered"`
}
