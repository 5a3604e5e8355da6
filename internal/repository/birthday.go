package repository

import "time"

// dateLayout is the DB string form of a calendar date.
const dateLayout = "2006-01-02"

// nextOccurrence returns the next calendar occurrence of the
// birthday's month and day on or after today, ignoring the birth
// year. A Feb 29 birthday collapses to Feb 28 in non-leap years so
// the person still shows up once a year.
func nextOccurrence(birthday, today time.Time) time.Time {
	month, day := birthday.Month(), birthday.Day()
	occ := occurrenceInYear(today.Year(), month, day)
	if occ.Before(today) {
		occ = occurrenceInYear(today.Year()+1, month, day)
	}
	return occ
}

func occurrenceInYear(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// birthdayInWindow reports whether the next occurrence of the given
// birthday (a "YYYY-MM-DD" string) falls within [today, today+days],
// bounds inclusive. Malformed dates never match. The comparison is
// done on calendar days; any time component of today is discarded.
func birthdayInWindow(birthday string, today time.Time, days int) bool {
	b, err := time.Parse(dateLayout, birthday)
	if err != nil {
		return false
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	occ := nextOccurrence(b, start)
	return !occ.After(start.AddDate(0, 0, days))
}
