package analytics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// allTimeStart is the lower bound used for the all-time period. A fixed
// early date keeps all date math valid, as opposed to some -infinity value.
var allTimeStart = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

type PeriodKind string

const (
	PeriodRolling               PeriodKind = "rolling"
	PeriodCalendarMonth         PeriodKind = "calendarMonth"
	PeriodPreviousCalendarMonth PeriodKind = "previousCalendarMonth"
	PeriodCalendarYear          PeriodKind = "calendarYear"
	PeriodAllTime               PeriodKind = "allTime"
)

// Period is a named date-range selector. Days is used only for rolling periods.
type Period struct {
	Kind PeriodKind `json:"kind"`
	Days int        `json:"days,omitempty"`
}

// DefaultPeriod is the fallback for unknown or invalid period selectors.
func DefaultPeriod() Period {
	return Period{Kind: PeriodRolling, Days: 30}
}

// ID returns a stable string identifier for the period, usable as a cache key
// component and as the URL query parameter value.
func (p Period) ID() string {
	switch p.Kind {
	case PeriodRolling:
		return fmt.Sprintf("%dd", p.Days)
	case PeriodCalendarMonth:
		return "month"
	case PeriodPreviousCalendarMonth:
		return "prev-month"
	case PeriodCalendarYear:
		return "year"
	case PeriodAllTime:
		return "all"
	default:
		return string(p.Kind)
	}
}

// ParsePeriodID parses a period selector coming from the outside (URL param,
// stored preference). Unknown or malformed values fall back to the default
// period, they are not an error.
func ParsePeriodID(id string) Period {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "month":
		return Period{Kind: PeriodCalendarMonth}
	case "prev-month", "prevmonth", "previous-month":
		return Period{Kind: PeriodPreviousCalendarMonth}
	case "year":
		return Period{Kind: PeriodCalendarYear}
	case "all", "alltime", "all-time":
		return Period{Kind: PeriodAllTime}
	}

	id = strings.ToLower(strings.TrimSpace(id))
	if strings.HasSuffix(id, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(id, "d")); err == nil && days > 0 {
			return Period{Kind: PeriodRolling, Days: days}
		}
	}

	return DefaultPeriod()
}

// DateRange is a resolved period: both ends inclusive, at day granularity.
// Start and End are local midnights; Start <= End always holds.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ContainsDay reports whether t falls on a local calendar day within the range.
func (r DateRange) ContainsDay(t time.Time) bool {
	day := dayStart(t)
	return !day.Before(r.Start) && !day.After(r.End)
}

// DaySpan is the number of calendar days the range covers, both ends counted.
// Rounding absorbs the 23/25-hour days around DST transitions, Start and End
// are always local midnights so the quotient is never off by more than that.
func (r DateRange) DaySpan() int {
	return int(math.Round(r.End.Sub(r.Start).Hours()/24)) + 1
}

// ResolvePeriod converts a period selector into a concrete date range,
// relative to the given reference date (usually "today", in local time).
func ResolvePeriod(p Period, referenceDate time.Time) (DateRange, error) {
	ref := dayStart(referenceDate)

	switch p.Kind {
	case PeriodRolling:
		if p.Days <= 0 {
			return DateRange{}, fmt.Errorf("%w: rolling days must be positive, got %d", ErrInvalidPeriod, p.Days)
		}
		return DateRange{
			Start: ref.AddDate(0, 0, -(p.Days - 1)),
			End:   ref,
		}, nil
	case PeriodCalendarMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return DateRange{
			Start: start,
			End:   start.AddDate(0, 1, -1),
		}, nil
	case PeriodPreviousCalendarMonth:
		thisMonthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return DateRange{
			Start: thisMonthStart.AddDate(0, -1, 0),
			End:   thisMonthStart.AddDate(0, 0, -1),
		}, nil
	case PeriodCalendarYear:
		return DateRange{
			Start: time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location()),
			End:   time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, ref.Location()),
		}, nil
	case PeriodAllTime:
		return DateRange{
			Start: allTimeStart,
			End:   ref,
		}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidPeriod, p.Kind)
	}
}

// dayStart truncates t to local midnight. Day bucketing always works on
// local calendar days, truncating in UTC shifts days across timezones.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayKey is the ISO local date string used as the DailyVolumeMap key.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// weekStart returns the Monday local midnight on or before t.
func weekStart(t time.Time) time.Time {
	day := dayStart(t)
	weekday := int(day.Weekday())
	if weekday == 0 { // time.Sunday
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
