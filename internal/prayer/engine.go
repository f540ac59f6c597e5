// Package prayer computes daily Islamic prayer times from the sun's position
// and turns them into schedules for display.
package prayer

import (
	"fmt"
	"math"
	"slices"

	"github.com/smokyabdulrahman/miqat/internal/astro"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// Prayer and event names, in the order they occur through a day.
const (
	Fajr       = "Fajr"
	Sunrise    = "Sunrise"
	Dhuhr      = "Dhuhr"
	Asr        = "Asr"
	Sunset     = "Sunset"
	Maghrib    = "Maghrib"
	Isha       = "Isha"
	Imsak      = "Imsak"
	Midnight   = "Midnight"
	Firstthird = "Firstthird"
	Lastthird  = "Lastthird"
)

// horizonDepression is where the sun's upper limb touches the horizon:
// 34' of refraction plus a 16' semidiameter.
const horizonDepression = 0.833

// Params selects the conventions for a calculation.
type Params struct {
	Method Method
	Asr    AsrConvention
	// Adjust shifts every computed time by this many minutes.
	Adjust int
	// UTCOffset is the local offset from UTC in hours on the requested date.
	UTCOffset float64
}

// TimeSet holds the five prayers and sunrise as local clock times.
type TimeSet struct {
	Fajr    Clock `json:"fajr"`
	Sunrise Clock `json:"sunrise"`
	Dhuhr   Clock `json:"dhuhr"`
	Asr     Clock `json:"asr"`
	Maghrib Clock `json:"maghrib"`
	Isha    Clock `json:"isha"`
	// Approximate names the times whose sun angle is never reached on this
	// date, placed at the nearest achievable position instead, and the times
	// that fall outside the local day and were wrapped into it.
	Approximate []string `json:"approximate,omitempty"`
}

// Get returns the time with the given name.
func (s TimeSet) Get(name string) (Clock, bool) {
	switch name {
	case Fajr:
		return s.Fajr, true
	case Sunrise:
		return s.Sunrise, true
	case Dhuhr:
		return s.Dhuhr, true
	case Asr:
		return s.Asr, true
	case Maghrib:
		return s.Maghrib, true
	case Isha:
		return s.Isha, true
	}
	return 0, false
}

// IsApproximate reports whether the named time was clamped.
func (s TimeSet) IsApproximate(name string) bool {
	return slices.Contains(s.Approximate, name)
}

// Calculate returns the prayer times for a date at c. Every time is derived
// from one solar position at local transit, so the results are ordered
// whenever none of them is approximate. Adjust is applied after that check
// and may wrap times without marking them.
func Calculate(c geo.Coordinate, date hijri.GregorianDate, p Params) (TimeSet, error) {
	r, err := solve(c, date, p)
	if err != nil {
		return TimeSet{}, err
	}

	return TimeSet{
		Fajr:        r.clock(r.fajr, p.Adjust),
		Sunrise:     r.clock(r.sunrise, p.Adjust),
		Dhuhr:       r.clock(r.dhuhr, p.Adjust),
		Asr:         r.clock(r.asr, p.Adjust),
		Maghrib:     r.clock(r.maghrib, p.Adjust),
		Isha:        r.clock(r.isha, p.Adjust),
		Approximate: r.approx,
	}, nil
}

// solution is one day's times in fractional local hours, before rounding.
type solution struct {
	fajr, sunrise, dhuhr, asr, sunset, maghrib, isha float64
	approx                                           []string
}

func (solution) clock(h float64, adjust int) Clock {
	return ClockFromHours(h).Add(adjust)
}

func solve(c geo.Coordinate, date hijri.GregorianDate, p Params) (solution, error) {
	if err := c.Validate(); err != nil {
		return solution{}, err
	}
	mp, err := p.Method.Params()
	if err != nil {
		return solution{}, err
	}
	if !p.Asr.Valid() {
		return solution{}, fmt.Errorf("%w: %d", ErrUnknownAsr, int(p.Asr))
	}
	jd, err := date.JulianDay()
	if err != nil {
		return solution{}, err
	}

	// Local apparent noon, as a fraction of the UT day.
	transitJD := jd + 0.5 - hijri.JulianDay(c.Longitude/360)
	sun := astro.SolarCoordinates(transitJD)
	transit := 12 + p.UTCOffset - c.Longitude/15 - sun.EquationOfTime

	var r solution
	hourAngle := func(altitude float64, names ...string) float64 {
		h, clamped := hourAngleAt(altitude, c.Latitude, sun.Declination)
		if clamped {
			r.approx = append(r.approx, names...)
		}
		return h
	}

	r.dhuhr = transit
	r.fajr = transit - hourAngle(-mp.Fajr, Fajr)

	horizon, horizonClamped := hourAngleAt(-horizonDepression, c.Latitude, sun.Declination)
	if horizonClamped {
		r.approx = append(r.approx, Sunrise)
	}
	r.sunrise = transit - horizon
	r.sunset = transit + horizon

	r.asr = transit + hourAngle(asrAltitude(p.Asr.ShadowFactor(), c.Latitude, sun.Declination), Asr)

	switch mp.Maghrib.Kind {
	case RuleAngle:
		r.maghrib = transit + hourAngle(-mp.Maghrib.Value, Maghrib)
	default:
		r.maghrib = r.sunset + mp.Maghrib.Value/60
		if horizonClamped {
			r.approx = append(r.approx, Maghrib)
		}
	}

	switch mp.Isha.Kind {
	case RuleAngle:
		r.isha = transit + hourAngle(-mp.Isha.Value, Isha)
	default:
		r.isha = r.maghrib + mp.Isha.Value/60
		if slices.Contains(r.approx, Maghrib) {
			r.approx = append(r.approx, Isha)
		}
	}

	for _, t := range []struct {
		name string
		h    float64
	}{
		{Fajr, r.fajr}, {Sunrise, r.sunrise}, {Dhuhr, r.dhuhr},
		{Asr, r.asr}, {Maghrib, r.maghrib}, {Isha, r.isha},
	} {
		if outsideDay(t.h) {
			r.approx = append(r.approx, t.name)
		}
	}

	r.approx = ordered(r.approx)
	return r, nil
}

// outsideDay reports whether h, once rounded to the minute, lies before
// 00:00 or at or after 24:00 of the local date.
func outsideDay(h float64) bool {
	m := math.Round(h * 60)
	return m < 0 || m >= minutesPerDay
}

// hourAngleAt returns the hour angle, in hours, at which the sun stands at
// altitude degrees. When the sun never reaches that altitude the cosine is
// clamped to [-1, 1] and clamped is true.
func hourAngleAt(altitude, lat, decl float64) (h float64, clamped bool) {
	cosH := (astro.SinD(altitude) - astro.SinD(lat)*astro.SinD(decl)) /
		(astro.CosD(lat) * astro.CosD(decl))
	switch {
	case cosH > 1:
		cosH, clamped = 1, true
	case cosH < -1:
		cosH, clamped = -1, true
	}
	return astro.AcosD(cosH) / 15, clamped
}

// asrAltitude is the sun's altitude when an object's shadow equals factor
// times its length plus its shadow at noon.
func asrAltitude(factor, lat, decl float64) float64 {
	return astro.AtanD(1 / (factor + astro.TanD(math.Abs(lat-decl))))
}

// ordered returns the distinct names of in day order, or nil if in is empty.
func ordered(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	var out []string
	for _, name := range AllPrayerNames {
		if slices.Contains(in, name) {
			out = append(out, name)
		}
	}
	return out
}
