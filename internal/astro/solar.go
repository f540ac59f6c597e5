package astro

import (
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// SolarPosition is the part of the sun's apparent position that prayer-time
// computation needs.
type SolarPosition struct {
	// Declination is the sun's apparent declination in degrees.
	Declination float64
	// EquationOfTime is apparent minus mean solar time, in hours.
	EquationOfTime float64
}

// SolarCoordinates returns the sun's declination and the equation of time for
// jd. The series is good to about a minute of time, enough for prayer times
// but not for general astronomy.
func SolarCoordinates(jd hijri.JulianDay) SolarPosition {
	t := jd.Centuries()

	// Geometric mean longitude and mean anomaly.
	l0 := Normalize360(280.46646 + t*(36000.76983+t*0.0003032))
	m := Normalize360(357.52911 + t*(35999.05029-t*0.0001537))
	e := 0.016708634 - t*(0.000042037+t*0.0000001267)

	// Equation of centre.
	c := SinD(m)*(1.914602-t*(0.004817+t*0.000014)) +
		SinD(2*m)*(0.019993-t*0.000101) +
		SinD(3*m)*0.000289

	omega := 125.04 - 1934.136*t
	lambda := l0 + c - 0.00569 - 0.00478*SinD(omega)

	// Mean obliquity of the ecliptic, corrected for nutation.
	eps0 := 23.0 + (26.0+(21.448-t*(46.815+t*(0.00059-t*0.001813)))/60.0)/60.0
	eps := eps0 + 0.00256*CosD(omega)

	decl := AsinD(SinD(eps) * SinD(lambda))

	y := TanD(eps / 2)
	y *= y
	eqt := y*SinD(2*l0) -
		2*e*SinD(m) +
		4*e*y*SinD(m)*CosD(2*l0) -
		0.5*y*y*SinD(4*l0) -
		1.25*e*e*SinD(2*m)

	// eqt is in radians of hour angle; 1 degree = 4 minutes.
	return SolarPosition{
		Declination:    decl,
		EquationOfTime: Rad2Deg(eqt) * 4.0 / 60.0,
	}
}
