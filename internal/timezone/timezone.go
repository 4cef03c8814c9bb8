package timezone

import "time"

const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// NowIn returns the current wall clock in the business's local calendar.
// The scheduling engine itself never converts timezones; it receives this
// already-localized now.
func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
