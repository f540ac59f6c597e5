package prayer

import (
	"fmt"
	"sort"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Name        string    `json:"name"`
	Time        time.Time `json:"time"`
	Approximate bool      `json:"approximate,omitempty"`
}

// AllPrayerNames lists every prayer/event a Day carries. The first seven are
// in chronological order; the night times follow.
var AllPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha,
	Imsak, Midnight, Firstthird, Lastthird,
}

// DefaultPrayerNames are the prayers tracked by default.
var DefaultPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha,
}

// ShortNames maps full prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	Fajr:       "F",
	Sunrise:    "S",
	Dhuhr:      "D",
	Asr:        "A",
	Sunset:     "St",
	Maghrib:    "M",
	Isha:       "I",
	Imsak:      "Im",
	Midnight:   "Mi",
	Firstthird: "F3",
	Lastthird:  "L3",
}

// afternoon names are late enough that an early clock value means the time
// has crossed midnight into the next calendar day.
var afternoon = map[string]bool{
	Asr: true, Sunset: true, Maghrib: true, Isha: true,
	Midnight: true, Firstthird: true, Lastthird: true,
}

// IsValidName reports whether name is one of AllPrayerNames.
func IsValidName(name string) bool {
	_, ok := ShortNames[name]
	return ok
}

// Schedule turns a computed Day into absolute times in loc, filtered to the
// selected names and sorted chronologically.
func Schedule(d Day, loc *time.Location, selected []string) ([]Prayer, error) {
	date := d.Date.Time(loc)

	var prayers []Prayer
	for _, name := range selected {
		c, ok := d.Clock(name)
		if !ok {
			return nil, fmt.Errorf("unknown prayer name: %s", name)
		}

		t := c.On(date, loc)
		if afternoon[name] && c < d.Times.Dhuhr {
			t = c.On(date.AddDate(0, 0, 1), loc)
		}

		prayers = append(prayers, Prayer{
			Name:        name,
			Time:        t,
			Approximate: d.Times.IsApproximate(name),
		})
	}

	sort.SliceStable(prayers, func(i, j int) bool {
		return prayers[i].Time.Before(prayers[j].Time)
	})
	return prayers, nil
}

// ScheduleFor computes date at c and returns its schedule in loc.
func ScheduleFor(c geo.Coordinate, date hijri.GregorianDate, p Params, loc *time.Location, selected []string) ([]Prayer, error) {
	d, err := Compute(c, date, p, loc)
	if err != nil {
		return nil, err
	}
	return Schedule(d, loc, selected)
}

// NextPrayer finds the next upcoming prayer from the given slice, relative to now.
// If all prayers for today have passed, it returns nil (caller should compute tomorrow's).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentPrayer returns the latest prayer at or before now, or nil when now
// is earlier than every prayer in the slice.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var cur *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		cur = &prayers[i]
	}
	return cur
}

// NextAfter returns the first selected prayer after now at c, rolling over
// to the next day once today's have passed. now's location is the local zone.
func NextAfter(c geo.Coordinate, now time.Time, p Params, selected []string) (*Prayer, error) {
	loc := now.Location()
	today := hijri.FromTime(now)

	for _, date := range []hijri.GregorianDate{today, today.AddDays(1)} {
		prayers, err := ScheduleFor(c, date, p, loc, selected)
		if err != nil {
			return nil, err
		}
		if next := NextPrayer(prayers, now); next != nil {
			return next, nil
		}
	}
	return nil, fmt.Errorf("no upcoming prayer among %v", selected)
}

// Until returns how long after now the prayer falls; negative once passed.
func (p Prayer) Until(now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining renders d as "Xh Ym", or "Ym" under an hour. Negative
// durations render as "0m".
func FormatRemaining(d time.Duration) string {
	d = max(d, 0)
	h, m := int(d/time.Hour), int(d%time.Hour/time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
