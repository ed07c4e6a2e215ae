package coverage

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date-range validation errors, surfaced before any fetch runs.
var (
	ErrMissingDateRange  = errors.New("start and end dates are required")
	ErrMalformedDate     = errors.New("dates must be formatted YYYY-MM-DD")
	ErrInvertedDateRange = errors.New("end date precedes start date")
	ErrDateRangeTooWide  = errors.New("date range exceeds one year")
)

// localHour returns the hour-of-day [0,23] of t in loc, using real timezone
// rules so daylight-saving transitions come out right. A nil location means
// timezone conversion is unavailable; we degrade to the UTC hour.
func localHour(t time.Time, loc *time.Location) int {
	if loc == nil {
		return t.UTC().Hour()
	}
	return t.In(loc).Hour()
}

// localDate returns t's calendar date string in loc ("2006-01-02").
func localDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		return t.UTC().Format(dateLayout)
	}
	return t.In(loc).Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// enumerateDates expands the inclusive [start, end] range into ordered
// calendar-date strings. Equality is on date strings throughout the engine,
// never on instants, so midnight boundaries can't shift a day.
func enumerateDates(start, end string) ([]string, error) {
	if start == "" || end == "" {
		return nil, ErrMissingDateRange
	}
	from, err := parseDate(start)
	if err != nil {
		return nil, ErrMalformedDate
	}
	to, err := parseDate(end)
	if err != nil {
		return nil, ErrMalformedDate
	}
	if to.Before(from) {
		return nil, ErrInvertedDateRange
	}
	if to.Sub(from) > 366*24*time.Hour {
		return nil, ErrDateRangeTooWide
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// queryWindowUTC widens the requested local range by one day on each side.
// Storage keeps instants in UTC while the grid axis is timezone-local, so the
// store must be queried wider than the display range; the extra records are
// dropped later by date-string comparison against the enumerated dates.
func queryWindowUTC(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrMalformedDate
	}
	to, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrMalformedDate
	}
	return from.AddDate(0, 0, -1), to.AddDate(0, 0, 2), nil
}

// hourLabel renders an hour as the short local-time form used in block
// labels: 0 → "12am", 6 → "6am", 12 → "12pm", 18 → "6pm".
func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	case h == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}
