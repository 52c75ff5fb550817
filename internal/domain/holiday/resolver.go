// internal/domain/holiday/resolver.go
package holiday

import (
	"strconv"
	"time"
)

// dynamicDates holds the known solstice dates for RuleDynamic holidays.
var dynamicDates = map[int]MonthDay{
	2025: {Month: 12, Day: 22},
	2026: {Month: 12, Day: 22},
}

var dynamicFallback = MonthDay{Month: 12, Day: 22}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (h Holiday) override(year int) (MonthDay, bool) {
	md, ok := h.SolarOverrides[strconv.Itoa(year)]
	if !ok || !md.valid() {
		return MonthDay{}, false
	}
	return md, true
}

// DateIn resolves the holiday's solar date in year. The override table always wins.
// Without an override, solar and lunar rules both read month/day as a solar date;
// for lunar holidays that is only an approximation.
func (h Holiday) DateIn(year int, loc *time.Location) time.Time {
	if md, ok := h.override(year); ok {
		return time.Date(year, time.Month(md.Month), md.Day, 0, 0, 0, 0, loc)
	}
	switch h.Date.Type {
	case RuleLunar, RuleSolar:
		return time.Date(year, time.Month(h.Date.Month), h.Date.Day, 0, 0, 0, 0, loc)
	default:
		md, ok := dynamicDates[year]
		if !ok {
			md = dynamicFallback
		}
		return time.Date(year, time.Month(md.Month), md.Day, 0, 0, 0, 0, loc)
	}
}

// NextOccurrence returns this year's date, or next year's if this year's is already past.
// Comparison is date-only in today's location.
func (h Holiday) NextOccurrence(today time.Time) time.Time {
	day := truncateToDay(today)
	date := h.DateIn(day.Year(), day.Location())
	if date.Before(day) {
		date = h.DateIn(day.Year()+1, day.Location())
	}
	return date
}

// ResolveAll annotates every holiday with its next occurrence, keeping list order.
func ResolveAll(holidays []Holiday, today time.Time) []Resolved {
	out := make([]Resolved, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, Resolved{Holiday: h, SolarDate: h.NextOccurrence(today)})
	}
	return out
}

// Upcoming picks the soonest resolved occurrence on or after today. Ties keep the first
// holiday in list order. It reports false for an empty list.
func Upcoming(holidays []Holiday, today time.Time) (Resolved, bool) {
	day := truncateToDay(today)

	var (
		best    Resolved
		found   bool
		minDiff time.Duration
	)
	for _, r := range ResolveAll(holidays, today) {
		diff := r.SolarDate.Sub(day)
		if diff < 0 {
			continue
		}
		if !found || diff < minDiff {
			best, minDiff, found = r, diff, true
		}
	}
	return best, found
}

// DaysUntil counts calendar days from today to the resolved date.
func (r Resolved) DaysUntil(today time.Time) int {
	day := truncateToDay(today)
	target := truncateToDay(r.SolarDate.In(day.Location()))
	y1, m1, d1 := day.Date()
	y2, m2, d2 := target.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
