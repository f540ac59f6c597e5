// Package qibla computes the direction and distance from an observer to the
// Kaaba in Makkah.
package qibla

import (
	"math"

	"github.com/smokyabdulrahman/miqat/internal/astro"
	"github.com/smokyabdulrahman/miqat/internal/geo"
)

// Kaaba is the fixed target of every bearing.
var Kaaba = geo.Coordinate{Latitude: 21.4225, Longitude: 39.8262}

// earthRadiusKm is the mean earth radius.
const earthRadiusKm = 6371.0

// Octant is one of the eight compass points.
type Octant string

const (
	North     Octant = "N"
	NorthEast Octant = "NE"
	East      Octant = "E"
	SouthEast Octant = "SE"
	South     Octant = "S"
	SouthWest Octant = "SW"
	West      Octant = "W"
	NorthWest Octant = "NW"
)

var octants = [8]Octant{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// Bearing is the initial great-circle direction to the Kaaba.
type Bearing struct {
	// Degrees clockwise from true north, in [0, 360).
	Degrees float64 `json:"degrees"`
	Octant  Octant  `json:"octant"`
}

// Compute returns the Qibla bearing for c.
func Compute(c geo.Coordinate) (Bearing, error) {
	if err := c.Validate(); err != nil {
		return Bearing{}, err
	}

	dLon := Kaaba.Longitude - c.Longitude
	y := astro.SinD(dLon) * astro.CosD(Kaaba.Latitude)
	x := astro.CosD(c.Latitude)*astro.SinD(Kaaba.Latitude) -
		astro.SinD(c.Latitude)*astro.CosD(Kaaba.Latitude)*astro.CosD(dLon)

	deg := astro.Normalize360(astro.Atan2D(y, x))
	return Bearing{Degrees: deg, Octant: OctantOf(deg)}, nil
}

// OctantOf maps a bearing to the compass point whose 45° bin contains it.
// Bins are centred on the points, so North covers [337.5, 22.5).
func OctantOf(deg float64) Octant {
	idx := int(math.Floor(astro.Normalize360(deg)/45.0+0.5)) % 8
	return octants[idx]
}

// Distance returns the great-circle distance from c to the Kaaba in
// kilometres, using the haversine formula.
func Distance(c geo.Coordinate) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	dLat := astro.Deg2Rad(Kaaba.Latitude - c.Latitude)
	dLon := astro.Deg2Rad(Kaaba.Longitude - c.Longitude)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		astro.CosD(c.Latitude)*astro.CosD(Kaaba.Latitude)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a))), nil
}
