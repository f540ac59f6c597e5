package api

import (
	"fmt"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// Envelope is the wrapper around every Al Adhan payload. Code mirrors the
// HTTP status.
type Envelope[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type (
	// Response is the /timings payload: one day.
	Response = Envelope[Data]
	// CalendarResponse is the /calendar payload: one entry per day of a month.
	CalendarResponse = Envelope[[]Data]
)

// Data is one day of timings with its date and request metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings maps an event name ("Fajr", "Sunrise", "Firstthird", ...) to its
// "HH:MM" time. Values may carry a zone suffix such as " (+03)".
type Timings map[string]string

// Get returns the raw time string for a prayer name.
func (t Timings) Get(name string) (string, bool) {
	v, ok := t[name]
	return v, ok
}

// DateInfo carries the Gregorian date of a calendar entry. The Hijri side of
// the payload is ignored; it is computed locally.
type DateInfo struct {
	Gregorian GregorianDate `json:"gregorian"`
}

// GregorianDate is the API's date, "DD-MM-YYYY" in Date.
type GregorianDate struct {
	Date string `json:"date"`
}

// Parse converts the API's "DD-MM-YYYY" date.
func (g GregorianDate) Parse() (hijri.GregorianDate, error) {
	var d hijri.GregorianDate
	if _, err := fmt.Sscanf(g.Date, "%d-%d-%d", &d.Day, &d.Month, &d.Year); err != nil {
		return hijri.GregorianDate{}, fmt.Errorf("invalid API date %q: %w", g.Date, err)
	}
	if err := d.Validate(); err != nil {
		return hijri.GregorianDate{}, err
	}
	return d, nil
}

// Meta echoes the parameters the API resolved for a request.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method the API applied.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
