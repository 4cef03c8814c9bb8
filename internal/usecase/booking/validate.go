package booking

import (
	"context"
	"time"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/timeutil"
)

// VerificationGate is the collaborator gating anonymous bookings. It owns no
// scheduling logic.
type VerificationGate interface {
	IsVerified(ctx context.Context, phone string) (bool, error)
	Consume(ctx context.Context, phone string) error
}

// lookupFailure shapes a failed repository lookup: transient store errors
// keep their retriable mapping, everything else collapses to the given
// not-found code.
func lookupFailure(err error, code string) error {
	if httperr.IsKind(err, httperr.KindTransient) {
		return err
	}
	return httperr.NotFoundErr(code)
}

// checkTimeline runs the availability steps of admission against the weekly
// rules and the blocked-date set: the day must have at least one active
// rule, the requested interval must fit inside one rule's window, and the
// date must not be blocked. Conflict with existing appointments is not
// checked here; that happens inside the repository's atomic write, which is
// the only check that can race.
func checkTimeline(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	date string,
	startMinutes int,
	duration int,
) error {

	day, err := time.Parse(timeutil.DateLayout, date)
	if err != nil {
		return httperr.Validation("invalid_date")
	}

	rules, err := repo.RulesFor(ctx, businessID, int(day.Weekday()))
	if err != nil {
		return httperr.Transient("store_unavailable")
	}

	hasActive := false
	fits := false
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		hasActive = true

		ruleStart, err := timeutil.ToMinutes(rule.StartTime)
		if err != nil {
			continue
		}
		ruleEnd, err := timeutil.ToMinutes(rule.EndTime)
		if err != nil {
			continue
		}
		if startMinutes >= ruleStart && startMinutes+duration <= ruleEnd {
			fits = true
			break
		}
	}

	if !hasActive {
		return httperr.Availability("no_availability_that_day")
	}
	if !fits {
		return httperr.Availability("time_not_available")
	}

	blocked, err := repo.IsDateBlocked(ctx, businessID, date)
	if err != nil {
		return httperr.Transient("store_unavailable")
	}
	if blocked {
		return httperr.Availability("date_blocked")
	}

	return nil
}
