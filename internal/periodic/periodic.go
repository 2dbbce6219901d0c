// Package periodic recognizes periodic-note names (daily, weekly,
// monthly, quarterly, yearly) and computes when each period elapses.
//
// References to periodic notes that have not yet elapsed are suppressed
// by the resolver: a link to next week's note is an intention, not a
// broken reference. The rule is uniform across granularities: a period
// counts as elapsed only once its end has passed, so today's daily note
// and the current month's note are both suppressed.
//
// All periods are anchored in UTC; callers compare against a UTC now.
package periodic

import (
	"regexp"
	"time"
)

// Granularity is the calendar unit a periodic note covers.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	Quarter
	Year
)

// String returns the lowercase name of the granularity.
func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

// Period is one concrete calendar period, identified by its granularity
// and start instant.
type Period struct {
	Granularity Granularity
	Start       time.Time
}

// End returns the first instant after the period (the start of the next
// period of the same granularity).
func (p Period) End() time.Time {
	switch p.Granularity {
	case Day:
		return p.Start.AddDate(0, 0, 1)
	case Week:
		return p.Start.AddDate(0, 0, 7)
	case Month:
		return p.Start.AddDate(0, 1, 0)
	case Quarter:
		return p.Start.AddDate(0, 3, 0)
	case Year:
		return p.Start.AddDate(1, 0, 0)
	default:
		return p.Start
	}
}

// Elapsed reports whether the period has fully passed at the given
// instant.
func (p Period) Elapsed(now time.Time) bool {
	return !now.Before(p.End())
}

var (
	dayRe     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	weekRe    = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)
	monthRe   = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	quarterRe = regexp.MustCompile(`^(\d{4})-Q([1-4])$`)
	yearRe    = regexp.MustCompile(`^(\d{4})$`)
)

// Parse recognizes a periodic-note name (the basename of the note,
// without directory or extension). Accepted forms:
//
//	2025-08-21  daily
//	2025-W34    weekly (ISO week)
//	2025-08     monthly
//	2025-Q3     quarterly
//	2025        yearly
//
// Returns false for anything else, including out-of-range values such
// as month 13 or week 54.
func Parse(name string) (Period, bool) {
	if dayRe.MatchString(name) {
		t, err := time.Parse("2006-01-02", name)
		if err != nil {
			return Period{}, false
		}
		return Period{Granularity: Day, Start: t}, true
	}

	if m := weekRe.FindStringSubmatch(name); m != nil {
		year := atoi(m[1])
		week := atoi(m[2])
		start, ok := isoWeekStart(year, week)
		if !ok {
			return Period{}, false
		}
		return Period{Granularity: Week, Start: start}, true
	}

	if m := monthRe.FindStringSubmatch(name); m != nil {
		year := atoi(m[1])
		month := atoi(m[2])
		if month < 1 || month > 12 {
			return Period{}, false
		}
		return Period{
			Granularity: Month,
			Start:       time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		}, true
	}

	if m := quarterRe.FindStringSubmatch(name); m != nil {
		year := atoi(m[1])
		q := atoi(m[2])
		return Period{
			Granularity: Quarter,
			Start:       time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC),
		}, true
	}

	if yearRe.MatchString(name) {
		return Period{
			Granularity: Year,
			Start:       time.Date(atoi(name), time.January, 1, 0, 0, 0, 0, time.UTC),
		}, true
	}

	return Period{}, false
}

// isoWeekStart returns the Monday starting ISO week `week` of ISO year
// `year`. The second return is false when the year has no such week
// (e.g. week 53 of a 52-week year).
func isoWeekStart(year, week int) (time.Time, bool) {
	if week < 1 || week > 53 {
		return time.Time{}, false
	}

	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	isoWeekday := (int(jan4.Weekday()) + 6) % 7 // Monday=0
	week1Monday := jan4.AddDate(0, 0, -isoWeekday)

	start := week1Monday.AddDate(0, 0, (week-1)*7)
	gotYear, gotWeek := start.ISOWeek()
	if gotYear != year || gotWeek != week {
		return time.Time{}, false
	}
	return start, true
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
