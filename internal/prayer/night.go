package prayer

import (
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// imsakLead is how long Imsak precedes Fajr.
const imsakLead = 10

// NightTimes are the extra times around the night of a date.
type NightTimes struct {
	Imsak  Clock `json:"imsak"`
	Sunset Clock `json:"sunset"`
	// Midnight is halfway between sunset and the following Fajr.
	Midnight   Clock `json:"midnight"`
	Firstthird Clock `json:"firstthird"`
	Lastthird  Clock `json:"lastthird"`
}

// CalculateNight returns Imsak and the divisions of the night that starts at
// sunset on date. The night ends at Fajr on the following day.
func CalculateNight(c geo.Coordinate, date hijri.GregorianDate, p Params) (NightTimes, error) {
	today, err := solve(c, date, p)
	if err != nil {
		return NightTimes{}, err
	}
	tomorrow, err := solve(c, date.AddDays(1), p)
	if err != nil {
		return NightTimes{}, err
	}

	night := tomorrow.fajr + 24 - today.sunset

	return NightTimes{
		Imsak:      today.clock(today.fajr, p.Adjust-imsakLead),
		Sunset:     today.clock(today.sunset, p.Adjust),
		Midnight:   today.clock(today.sunset+night/2, p.Adjust),
		Firstthird: today.clock(today.sunset+night/3, p.Adjust),
		Lastthird:  today.clock(today.sunset+2*night/3, p.Adjust),
	}, nil
}

// Get returns the time with the given name.
func (n NightTimes) Get(name string) (Clock, bool) {
	switch name {
	case Imsak:
		return n.Imsak, true
	case Sunset:
		return n.Sunset, true
	case Midnight:
		return n.Midnight, true
	case Firstthird:
		return n.Firstthird, true
	case Lastthird:
		return n.Lastthird, true
	}
	return 0, false
}
