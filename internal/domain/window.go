package domain

import (
	"strconv"
	"time"
)

// Trailing-range bounds. Requests above the cap are clamped, not rejected.
const (
	DefaultTrailingYears = 1
	MaxTrailingYears     = 10
)

// Window is the requested time range: either one calendar month or a
// trailing span of whole calendar years ending now. The two modes are
// mutually exclusive; a valid month+year pair always wins so the engine
// fetches only that slice.
type Window struct {
	Month         time.Month // 1-12 in single-month mode, 0 otherwise
	Year          int        // set in single-month mode
	TrailingYears int        // set in range mode
}

// WindowFromParams builds a Window from raw query parameters. A parseable
// month (1-12) and positive year select single-month mode and suppress the
// trailing range entirely. Otherwise the years parameter is parsed with a
// default of one and clamped to [1, MaxTrailingYears].
func WindowFromParams(years, month, year string) Window {
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errM == nil && errY == nil && m >= 1 && m <= 12 && y > 0 {
		return Window{Month: time.Month(m), Year: y}
	}

	n := DefaultTrailingYears
	if v, err := strconv.Atoi(years); err == nil && v > 0 {
		n = v
	}
	if n > MaxTrailingYears {
		n = MaxTrailingYears
	}
	return Window{TrailingYears: n}
}

// SingleMonth reports whether the window targets one calendar month.
func (w Window) SingleMonth() bool {
	return w.Month != 0
}

// Years lists the calendar years the window covers, oldest first. A
// trailing range of N years means the current calendar year and the N-1
// before it, matching how the upstream catalogs are queried.
func (w Window) Years() []int {
	if w.SingleMonth() {
		return []int{w.Year}
	}
	current := clock.Now().UTC().Year()
	years := make([]int, 0, w.TrailingYears)
	for y := current - w.TrailingYears + 1; y <= current; y++ {
		years = append(years, y)
	}
	return years
}

// Contains reports whether the instant falls inside the window. Membership
// is calendar-based in both modes: the regional catalog reports local-time
// datetimes without an offset, so comparing against a wall-clock "now"
// would drop events from the most recent hours.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	if w.SingleMonth() {
		return t.Year() == w.Year && t.Month() == w.Month
	}
	current := clock.Now().UTC().Year()
	return t.Year() >= current-w.TrailingYears+1 && t.Year() <= current
}
