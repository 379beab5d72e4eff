package intake

import (
	"regexp"
	"strings"
	"time"
)

// MinAge is the default minimum employee age, in years.
const MinAge = 18

var (
	ssnPattern  = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
	feinPattern = regexp.MustCompile(`^\d{2}-\d{7}$`)
)

// IsValidSSN reports whether s is a fully formatted SSN (###-##-####).
func IsValidSSN(s string) bool { return ssnPattern.MatchString(s) }

// IsValidFEIN reports whether s is a fully formatted FEIN (##-#######).
func IsValidFEIN(s string) bool { return feinPattern.MatchString(s) }

// IsNonEmptyText reports whether s has anything besides whitespace.
func IsNonEmptyText(s string) bool { return strings.TrimSpace(s) != "" }

// IsAdult reports whether someone born on dob is at least minYears old on
// today. Only calendar dates are compared. The cutoff is today minus
// minYears years, with the day clamped to the end of the month, so a
// Feb 29 "today" maps to Feb 28 in a non-leap target year. A zero dob is
// never adult.
func IsAdult(dob, today time.Time, minYears int) bool {
	if dob.IsZero() {
		return false
	}
	return !civil(dob).After(yearsBefore(today, minYears))
}

// yearsBefore subtracts n calendar years from t, clamping the day to the
// length of the resulting month instead of rolling over as time.AddDate does.
func yearsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	y -= n
	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civil drops the clock and location, keeping the calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
