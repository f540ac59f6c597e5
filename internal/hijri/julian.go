// Package hijri converts dates between Julian Days, the proleptic Gregorian
// calendar and the tabular (arithmetic) Hijri calendar.
//
// Every conversion goes through the Julian Day Number, so the Gregorian and
// Hijri sides can never disagree with each other. All functions are pure and
// safe for concurrent use.
package hijri

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrInvalidDate is returned when a month or day lies outside the calendar.
	ErrInvalidDate = errors.New("invalid date")
	// ErrOutOfRange is returned for Gregorian dates before 1 Muharram 1 AH.
	ErrOutOfRange = errors.New("date out of range")
)

// JulianDay is a continuous day count. Whole days start at .5 (midnight).
type JulianDay float64

// J2000 is the Julian Day of 2000-01-01 12:00 TT.
const J2000 JulianDay = 2451545.0

// Number returns the Julian Day Number of the civil day containing jd.
func (jd JulianDay) Number() int {
	return int(math.Floor(float64(jd) + 0.5))
}

// Centuries returns Julian centuries elapsed since J2000.
func (jd JulianDay) Centuries() float64 {
	return float64(jd-J2000) / 36525.0
}

// Weekday returns the day of the week jd falls on.
func (jd JulianDay) Weekday() time.Weekday {
	return time.Weekday(floorMod(jd.Number()+1, 7))
}

// Date returns the Gregorian calendar date containing jd.
func (jd JulianDay) Date() GregorianDate {
	return JulianDayToGregorian(jd)
}

// JulianDayFromTime returns the Julian Day of t, including the time of day.
func JulianDayFromTime(t time.Time) JulianDay {
	u := t.UTC()
	y, m, d := u.Date()
	// Date came from time.Time, so it is always valid.
	jd, _ := GregorianToJulianDay(y, int(m), d)
	secs := u.Hour()*3600 + u.Minute()*60 + u.Second()
	return jd + JulianDay((float64(secs)+float64(u.Nanosecond())/1e9)/86400.0)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
