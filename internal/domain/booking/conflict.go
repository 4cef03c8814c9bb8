package booking

import (
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

// BusyInterval is an existing appointment projected onto the clock face.
type BusyInterval struct {
	AppointmentID uint
	StartMinutes  int
	Duration      int
}

// BusyIntervals projects pending/confirmed appointments onto minute offsets,
// silently skipping records whose stored times fail to parse (write-time
// validation should make that impossible).
func BusyIntervals(appointments []models.Appointment) []BusyInterval {
	out := make([]BusyInterval, 0, len(appointments))
	for _, ap := range appointments {
		if !IsActive(ap.Status) {
			continue
		}
		start, err := timeutil.ToMinutes(ap.StartTime)
		if err != nil {
			continue
		}
		end, err := timeutil.ToMinutes(ap.EndTime)
		if err != nil || end <= start {
			continue
		}
		out = append(out, BusyInterval{
			AppointmentID: ap.ID,
			StartMinutes:  start,
			Duration:      end - start,
		})
	}
	return out
}

// FindConflict scans existing busy intervals in stored order and returns the
// first one overlapping [start, start+duration), skipping excludeID (used
// when re-validating an edit of the same appointment). Callers should not
// depend on which interval is reported, only that one exists.
func FindConflict(start, duration int, existing []BusyInterval, excludeID uint) (*BusyInterval, bool) {
	for i := range existing {
		b := existing[i]
		if excludeID != 0 && b.AppointmentID == excludeID {
			continue
		}
		if timeutil.Overlaps(start, duration, b.StartMinutes, b.Duration) {
			return &b, true
		}
	}
	return nil, false
}
