package hijri

import (
	"fmt"
)

// hijriEpoch is the Julian Day Number of 1 Muharram of year 0, a common
// 354-day year ending the day before 1 Muharram 1 AH (16 July 622, Julian).
const hijriEpoch = 1948086

// HijriDate is a date in the tabular Hijri calendar.
type HijriDate struct {
	Year  int
	Month int
	Day   int
}

// ParseHijri parses a YYYY-MM-DD Hijri date and validates it.
func ParseHijri(s string) (HijriDate, error) {
	var h HijriDate
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &h.Year, &h.Month, &h.Day); err != nil {
		return HijriDate{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	if err := h.Validate(); err != nil {
		return HijriDate{}, err
	}
	return h, nil
}

// String formats the date as YYYY-MM-DD.
func (h HijriDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, h.Month, h.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (h HijriDate) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes and validates a YYYY-MM-DD date.
func (h *HijriDate) UnmarshalText(b []byte) error {
	d, err := ParseHijri(string(b))
	if err != nil {
		return err
	}
	*h = d
	return nil
}

// Format returns the date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	name := MonthName(h.Month)
	if name == "" {
		return ""
	}
	return fmt.Sprintf("%d %s %d AH", h.Day, name, h.Year)
}

// Validate reports ErrInvalidDate when the year, month or day is outside the
// calendar. The upper day bound is the derived month length.
func (h HijriDate) Validate() error {
	if h.Year < 1 {
		return fmt.Errorf("%w: hijri year %d before 1 AH", ErrInvalidDate, h.Year)
	}
	if h.Month < 1 || h.Month > 12 {
		return fmt.Errorf("%w: hijri month %d not in [1, 12]", ErrInvalidDate, h.Month)
	}
	if n := MonthLength(h.Year, h.Month); h.Day < 1 || h.Day > n {
		return fmt.Errorf("%w: hijri day %d not in [1, %d] for %04d-%02d", ErrInvalidDate, h.Day, n, h.Year, h.Month)
	}
	return nil
}

// IsHijriLeapYear reports whether year has 355 days, following the 30-year
// cycle with leap years 2, 5, 7, 10, 13, 16, 18, 21, 24, 26 and 29.
func IsHijriLeapYear(year int) bool {
	return floorMod(11*year+14, 30) < 11
}

// GregorianToHijri converts a Gregorian date to the tabular Hijri calendar.
func GregorianToHijri(g GregorianDate) (HijriDate, error) {
	if err := g.Validate(); err != nil {
		return HijriDate{}, err
	}
	h := hijriFromJDN(gregorianJDN(g.Year, g.Month, g.Day))
	if h.Year < 1 {
		return HijriDate{}, fmt.Errorf("%w: %s is before 1 Muharram 1 AH", ErrOutOfRange, g)
	}
	return h, nil
}

// HijriToGregorian converts a tabular Hijri date to the Gregorian calendar.
func HijriToGregorian(h HijriDate) (GregorianDate, error) {
	if err := h.Validate(); err != nil {
		return GregorianDate{}, err
	}
	return fromJDN(hijriJDN(h.Year, h.Month, h.Day)), nil
}

// HijriToJulianDay returns the Julian Day at the midnight starting h.
func HijriToJulianDay(h HijriDate) (JulianDay, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	return JulianDay(float64(hijriJDN(h.Year, h.Month, h.Day)) - 0.5), nil
}

// JulianDayToHijri returns the Hijri date containing jd.
func JulianDayToHijri(jd JulianDay) (HijriDate, error) {
	h := hijriFromJDN(jd.Number())
	if h.Year < 1 {
		return HijriDate{}, fmt.Errorf("%w: julian day %.1f is before 1 Muharram 1 AH", ErrOutOfRange, float64(jd))
	}
	return h, nil
}

// hijriJDN returns the Julian Day Number of a Hijri date. Months alternate
// 30 and 29 days; the leap day goes to Dhu al-Hijjah.
func hijriJDN(year, month, day int) int {
	return hijriEpoch +
		354*year + floorDiv(11*year+3, 30) +
		(59*(month-1)+1)/2 +
		day - 1
}

func hijriFromJDN(jdn int) HijriDate {
	year := floorDiv(30*(jdn-hijriEpoch), 10631)
	for hijriJDN(year+1, 1, 1) <= jdn {
		year++
	}
	for hijriJDN(year, 1, 1) > jdn {
		year--
	}

	month := min(12, 1+(2*(jdn-hijriJDN(year, 1, 1)))/59)
	for month < 12 && hijriJDN(year, month+1, 1) <= jdn {
		month++
	}
	for month > 1 && hijriJDN(year, month, 1) > jdn {
		month--
	}

	return HijriDate{
		Year:  year,
		Month: month,
		Day:   jdn - hijriJDN(year, month, 1) + 1,
	}
}
