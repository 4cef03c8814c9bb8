package booking

import (
	"time"

	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

// SlotStride is the fixed walk between candidate start times, in minutes.
const SlotStride = 15

// GenerateSlots turns the weekly rules matching date's day-of-week into the
// raw set of candidate start times for a service of the given duration. It
// never consults existing appointments; filtering booked slots out is the
// conflict detector's job, which keeps generation pure and cacheable per
// (business, date, service).
//
// Candidates across multiple same-day rules are unioned in rule order, so
// abutting rules can emit duplicates. Zero matching rules is an empty result,
// not an error.
func GenerateSlots(rules []models.AvailabilityRule, serviceDuration int, date time.Time) ([]string, error) {
	if serviceDuration <= 0 {
		return nil, timeutil.ErrInvalidDuration
	}

	weekday := int(date.Weekday())

	slots := []string{}
	for _, rule := range rules {
		if !rule.Active || rule.DayOfWeek != weekday {
			continue
		}

		start, err := timeutil.ToMinutes(rule.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := timeutil.ToMinutes(rule.EndTime)
		if err != nil {
			return nil, err
		}

		for cur := start; cur+serviceDuration <= end; cur += SlotStride {
			slot, err := timeutil.FromMinutes(cur)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
		}
	}

	return slots, nil
}
