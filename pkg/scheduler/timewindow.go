package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arnavshah/roster-optimizer/pkg/models"
)

const (
	// DefaultTime is used when a shift time is missing or unreadable
	DefaultTime = "08:00"
	// DefaultWindowStart opens the working day searched for slots
	DefaultWindowStart = "08:00"
	// DefaultWindowEnd closes the working day searched for slots
	DefaultWindowEnd = "18:00"

	minutesPerDay = 24 * 60
)

// NormalizeTime turns "H:MM", "HH:MM" or "HH:MM:SS" into "HH:MM".
// Shift times are local wall-clock strings; no timezone is applied.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTime
	}
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return DefaultTime
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return DefaultTime
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ToMinutes converts "HH:MM" to minutes since midnight
func ToMinutes(hhmm string) int {
	parts := strings.SplitN(NormalizeTime(hhmm), ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// ToHours converts "HH:MM" to fractional hours since midnight
func ToHours(hhmm string) float64 {
	return float64(ToMinutes(hhmm)) / 60
}

// FromMinutes formats minutes since midnight as "HH:MM", wrapping at 24h
func FromMinutes(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes adds minutes to "HH:MM" modulo 24 hours. A result that wrapped
// past midnight is not a valid same-day end time; FindSlot never produces one.
func AddMinutes(hhmm string, minutes int) string {
	return FromMinutes(ToMinutes(hhmm) + minutes)
}

// EndMinutes returns the end of a window in minutes since the start's
// midnight. An end of "00:00", or one earlier than the start, runs into the
// next day, so a 20:00-00:00 shift ends at 1440.
func EndMinutes(start, end string) int {
	e := ToMinutes(end)
	if e == 0 || e < ToMinutes(start) {
		e += minutesPerDay
	}
	return e
}

// DurationHours returns the length of a window in hours
func DurationHours(start, end string) float64 {
	return float64(EndMinutes(start, end)-ToMinutes(start)) / 60
}

// Overlaps is a half-open interval test; touching windows do not overlap
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return ToMinutes(aStart) < EndMinutes(bStart, bEnd) && EndMinutes(aStart, aEnd) > ToMinutes(bStart)
}

// FindSlot returns the earliest start inside [windowStart, windowEnd) where a
// visit of durationMinutes fits without overlapping any existing window.
// Candidates are the window opening plus every existing window's end.
func FindSlot(existing []models.Window, durationMinutes int, windowStart, windowEnd string) (string, bool) {
	if durationMinutes <= 0 {
		return "", false
	}
	open := ToMinutes(windowStart)
	closeAt := ToMinutes(windowEnd)

	candidates := make([]int, 0, len(existing)+1)
	candidates = append(candidates, open)
	for _, w := range existing {
		candidates = append(candidates, EndMinutes(w.Start, w.End))
	}
	sort.Ints(candidates)

	for _, start := range candidates {
		end := start + durationMinutes
		if start < open || end > closeAt {
			continue
		}
		free := true
		for _, w := range existing {
			if start < EndMinutes(w.Start, w.End) && end > ToMinutes(w.Start) {
				free = false
				break
			}
		}
		if free {
			return FromMinutes(start), true
		}
	}
	return "", false
}
