package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCoordinate is the parent of every coordinate range error.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidLatitude is returned for latitudes outside [-90, 90].
	ErrInvalidLatitude = fmt.Errorf("%w: latitude", ErrInvalidCoordinate)
	// ErrInvalidLongitude is returned for longitudes outside [-180, 180].
	ErrInvalidLongitude = fmt.Errorf("%w: longitude", ErrInvalidCoordinate)
)

// Coordinate is a point on the earth in decimal degrees (north and east positive).
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate returns a validated Coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks that latitude and longitude are finite and in range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w %v: must be between -90 and 90", ErrInvalidLatitude, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w %v: must be between -180 and 180", ErrInvalidLongitude, c.Longitude)
	}
	return nil
}

// String formats the coordinate as "lat, lon" with four decimals.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// Coordinate returns the detected location as a Coordinate.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}
