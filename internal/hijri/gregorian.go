package hijri

import (
	"fmt"
	"math"
	"time"
)

// GregorianDate is a proleptic Gregorian calendar date.
type GregorianDate struct {
	Year  int
	Month int
	Day   int
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) GregorianDate {
	y, m, d := t.Date()
	return GregorianDate{Year: y, Month: int(m), Day: d}
}

// ParseGregorian parses a YYYY-MM-DD string and validates the result.
func ParseGregorian(s string) (GregorianDate, error) {
	var g GregorianDate
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &g.Year, &g.Month, &g.Day); err != nil {
		return GregorianDate{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	if err := g.Validate(); err != nil {
		return GregorianDate{}, err
	}
	return g, nil
}

// String formats the date as YYYY-MM-DD.
func (g GregorianDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", g.Year, g.Month, g.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (g GregorianDate) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes and validates a YYYY-MM-DD date.
func (g *GregorianDate) UnmarshalText(b []byte) error {
	d, err := ParseGregorian(string(b))
	if err != nil {
		return err
	}
	*g = d
	return nil
}

// Time returns midnight of the date in loc.
func (g GregorianDate) Time(loc *time.Location) time.Time {
	return time.Date(g.Year, time.Month(g.Month), g.Day, 0, 0, 0, 0, loc)
}

// Validate reports ErrInvalidDate when the month or day is out of range.
func (g GregorianDate) Validate() error {
	if g.Month < 1 || g.Month > 12 {
		return fmt.Errorf("%w: month %d not in [1, 12]", ErrInvalidDate, g.Month)
	}
	if n := DaysInGregorianMonth(g.Year, g.Month); g.Day < 1 || g.Day > n {
		return fmt.Errorf("%w: day %d not in [1, %d] for %04d-%02d", ErrInvalidDate, g.Day, n, g.Year, g.Month)
	}
	return nil
}

// JulianDay returns the Julian Day at midnight starting the date.
func (g GregorianDate) JulianDay() (JulianDay, error) {
	return GregorianToJulianDay(g.Year, g.Month, g.Day)
}

// AddDays returns the date n days later (or earlier for negative n).
func (g GregorianDate) AddDays(n int) GregorianDate {
	return fromJDN(gregorianJDN(g.Year, g.Month, g.Day) + n)
}

// IsGregorianLeapYear reports whether year has a 29 February.
func IsGregorianLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInGregorianMonth returns the length of month in year, or 0 for an
// invalid month.
func DaysInGregorianMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsGregorianLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// GregorianToJulianDay converts a proleptic Gregorian date to the Julian Day
// at its starting midnight, e.g. 2000-01-01 -> 2451544.5.
func GregorianToJulianDay(year, month, day int) (JulianDay, error) {
	if err := (GregorianDate{Year: year, Month: month, Day: day}).Validate(); err != nil {
		return 0, err
	}

	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := floorDiv(y, 100)
	b := 2 - a + floorDiv(a, 4)

	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day+b) - 1524.5

	return JulianDay(jd), nil
}

// JulianDayToGregorian returns the Gregorian date containing jd. It is the
// exact inverse of GregorianToJulianDay.
func JulianDayToGregorian(jd JulianDay) GregorianDate {
	return fromJDN(jd.Number())
}

// gregorianJDN returns the Julian Day Number (noon-based) of an already
// validated date.
func gregorianJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

func fromJDN(jdn int) GregorianDate {
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)

	return GregorianDate{
		Year:  100*b + d - 4800 + m/10,
		Month: m + 3 - 12*(m/10),
		Day:   e - floorDiv(153*m+2, 5) + 1,
	}
}
