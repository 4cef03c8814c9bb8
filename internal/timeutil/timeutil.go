// Package timeutil holds the clock-face arithmetic the scheduling engine is
// built on. Times of day are "HH:MM" strings or minute offsets from midnight,
// dates are "YYYY-MM-DD" strings in the business's local calendar; no
// timezone conversion happens here, callers supply an already-localized now.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

var (
	ErrMalformedTime   = errors.New("malformed time")
	ErrOutOfRange      = errors.New("minutes out of range")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Normalize accepts "H:MM", "HH:MM" or "HH:MM:SS" and returns zero-padded
// "HH:MM". Anything else fails with ErrMalformedTime.
func Normalize(timeStr string) (string, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrMalformedTime, timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedTime, timeStr)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedTime, timeStr)
	}

	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 || len(parts[2]) != 2 {
			return "", fmt.Errorf("%w: %q", ErrMalformedTime, timeStr)
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// ToMinutes converts a normalized "HH:MM" string to minutes past midnight.
func ToMinutes(timeStr string) (int, error) {
	norm, err := Normalize(timeStr)
	if err != nil {
		return 0, err
	}
	hour, _ := strconv.Atoi(norm[:2])
	minute, _ := strconv.Atoi(norm[3:])
	return hour*60 + minute, nil
}

// FromMinutes is the exact inverse of ToMinutes for values in [0, 1440).
func FromMinutes(minutes int) (string, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// Overlaps reports whether [startA, startA+durA) and [startB, startB+durB)
// intersect. Half-open: an interval ending exactly when another starts does
// not overlap.
func Overlaps(startA, durA, startB, durB int) bool {
	return startA < startB+durB && startB < startA+durA
}

// IsPastDate reports whether date falls strictly before today's calendar day.
func IsPastDate(date string, today time.Time) (bool, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrMalformedTime, date)
	}
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(t), nil
}

// IsPastDateTime reports whether date+time falls before now. Dates before
// today are past regardless of the time component; on today's date the time
// of day decides.
func IsPastDateTime(date, timeStr string, now time.Time) (bool, error) {
	past, err := IsPastDate(date, now)
	if err != nil {
		return false, err
	}
	if past {
		return true, nil
	}

	if date != now.Format(DateLayout) {
		return false, nil
	}

	minutes, err := ToMinutes(timeStr)
	if err != nil {
		return false, err
	}
	return minutes <= now.Hour()*60+now.Minute(), nil
}
