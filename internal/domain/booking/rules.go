package booking

import (
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/timeutil"
)

// RuleInput is one submitted weekly interval, before persistence.
type RuleInput struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	Active    bool
}

// ValidateRuleSet enforces the write-time invariants on a submitted rule
// set: well-formed times, start < end, day in 0..6, and no overlap between
// rules on the same day. The engine assumes these hold on every read.
func ValidateRuleSet(rules []RuleInput) error {
	type span struct{ start, end int }
	byDay := make(map[int][]span)

	for i := range rules {
		r := &rules[i]
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			return httperr.Validation("invalid_day_of_week")
		}

		start, err := timeutil.ToMinutes(r.StartTime)
		if err != nil {
			return httperr.Validation("malformed_time")
		}
		end, err := timeutil.ToMinutes(r.EndTime)
		if err != nil {
			return httperr.Validation("malformed_time")
		}
		if start >= end {
			return httperr.Validation("start_after_end")
		}

		if !r.Active {
			continue
		}
		for _, other := range byDay[r.DayOfWeek] {
			if timeutil.Overlaps(start, end-start, other.start, other.end-other.start) {
				return httperr.Validation("overlapping_rules")
			}
		}
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], span{start, end})
	}

	return nil
}
