package utils

import (
	"time"
)

const (
	tsLayout   = "2006-01-02T15:04:05-07:00"
	dateLayout = "2006-01-02"
)

// TimeStrToTimestamp converts an ISO-8601 like string to unix milliseconds.
// Accepted shapes are "YYYY-MM-DD", "YYYY-MM-DD hh:mm:ss" (either separator,
// optional trailing Z) and the same with a "+hh:mm" offset. Anything else is 0.
func TimeStrToTimestamp(s string) int64 {
	if len(s) > 0 && (s[len(s)-1] == 'Z' || s[len(s)-1] == 'z') {
		s = s[:len(s)-1]
	}
	if len(s) < 10 {
		return 0
	}

	if len(s) > 10 {
		s = s[:10] + "T" + s[11:]
	}

	switch len(s) {
	case 10:
		s += "T00:00:00+00:00"
	case 19:
		s += "+00:00"
	case 25:
	default:
		return 0
	}

	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return 0
	}
	return t.UnixNano() / int64(time.Millisecond)
}

// Date is a civil calendar date. Fields are compared in order, so an
// out of range day after year arithmetic still orders correctly.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate reads a leading "YYYY-MM-DD".
func ParseDate(s string) (Date, bool) {
	if len(s) < 10 {
		return Date{}, false
	}
	t, err := time.Parse(dateLayout, s[:10])
	if err != nil {
		return Date{}, false
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
}

// DateFromMillis returns the UTC calendar date of a unix millisecond timestamp.
func DateFromMillis(ms int64) Date {
	t := time.Unix(0, ms*int64(time.Millisecond)).UTC()
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddYears shifts the year keeping month and day as is.
func (d Date) AddYears(n int) Date {
	d.Year += n
	return d
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}
