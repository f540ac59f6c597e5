// Package events is a static calendar of Islamic observances that fall on a
// fixed Hijri date.
package events

import (
	"fmt"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// Event is an observance on a fixed Hijri month and day.
type Event struct {
	Month int    `json:"month"`
	Day   int    `json:"day"`
	Name  string `json:"name"`
}

// table is ordered by (Month, Day).
var table = []Event{
	{1, 1, "Islamic New Year"},
	{1, 10, "Day of Ashura"},
	{3, 12, "Mawlid an-Nabi"},
	{7, 27, "Isra and Miraj"},
	{8, 15, "Mid-Shaban"},
	{9, 1, "First Day of Ramadan"},
	{9, 27, "Laylat al-Qadr"},
	{10, 1, "Eid al-Fitr"},
	{12, 8, "Day of Tarwiyah"},
	{12, 9, "Day of Arafah"},
	{12, 10, "Eid al-Adha"},
}

// All returns a copy of the event table in calendar order.
func All() []Event {
	out := make([]Event, len(table))
	copy(out, table)
	return out
}

// On returns every event on the given Hijri month and day. The result is
// empty, not nil, when nothing falls on that day.
func On(month, day int) []Event {
	out := []Event{}
	for _, e := range table {
		if e.Month == month && e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// OnDate returns the events falling on a Gregorian date.
func OnDate(g hijri.GregorianDate) ([]Event, error) {
	h, err := hijri.GregorianToHijri(g)
	if err != nil {
		return nil, err
	}
	return On(h.Month, h.Day), nil
}

// Occurrence is an event placed on a concrete date.
type Occurrence struct {
	Event     Event               `json:"event"`
	Hijri     hijri.HijriDate     `json:"hijri"`
	Gregorian hijri.GregorianDate `json:"gregorian"`
}

// InYear returns every event of a Hijri year with its Gregorian date.
func InYear(year int) ([]Occurrence, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: hijri year %d before 1 AH", hijri.ErrInvalidDate, year)
	}

	out := make([]Occurrence, 0, len(table))
	for _, e := range table {
		h := hijri.HijriDate{Year: year, Month: e.Month, Day: e.Day}
		g, err := hijri.HijriToGregorian(h)
		if err != nil {
			return nil, fmt.Errorf("placing %s in %d AH: %w", e.Name, year, err)
		}
		out = append(out, Occurrence{Event: e, Hijri: h, Gregorian: g})
	}
	return out, nil
}

// Upcoming returns the next n occurrences on or after from.
func Upcoming(from hijri.GregorianDate, n int) ([]Occurrence, error) {
	h, err := hijri.GregorianToHijri(from)
	if err != nil {
		return nil, err
	}

	var out []Occurrence
	for year := h.Year; len(out) < n; year++ {
		occ, err := InYear(year)
		if err != nil {
			return nil, err
		}
		for _, o := range occ {
			if before(o.Gregorian, from) {
				continue
			}
			out = append(out, o)
			if len(out) == n {
				break
			}
		}
	}
	return out, nil
}

func before(a, b hijri.GregorianDate) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Day < b.Day
}
