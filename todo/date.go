package todo

import (
	"fmt"
	"time"
)

// Date is a calendar day in YYYY-MM-DD form. Zero-padded ISO dates order
// lexicographically, so comparisons work directly on the string value.
type Date string

const dateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD string and returns it as a Date.
func ParseDate(value string) (Date, error) {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return Date(value), nil
}

// DateOf returns the calendar day containing the given time, in its location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the current calendar day in local time.
func Today() Date {
	return DateOf(time.Now())
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// After reports whether d is a later day than other.
func (d Date) After(other Date) bool {
	return d > other
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

// Time returns the midnight instant of the date in the given location.
func (d Date) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, string(d), loc)
}

func (d Date) String() string {
	return string(d)
}
