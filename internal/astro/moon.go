package astro

import (
	"math"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

const (
	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588853
	// newMoonReference is the Julian Day of the new moon of 6 January 2000.
	newMoonReference = 2451550.1
)

// PhaseName names one of the eight moon phases.
type PhaseName string

const (
	NewMoon        PhaseName = "New Moon"
	WaxingCrescent PhaseName = "Waxing Crescent"
	FirstQuarter   PhaseName = "First Quarter"
	WaxingGibbous  PhaseName = "Waxing Gibbous"
	FullMoon       PhaseName = "Full Moon"
	WaningGibbous  PhaseName = "Waning Gibbous"
	LastQuarter    PhaseName = "Last Quarter"
	WaningCrescent PhaseName = "Waning Crescent"
)

var phaseNames = [8]PhaseName{
	NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous,
	FullMoon, WaningGibbous, LastQuarter, WaningCrescent,
}

// LunarPhase describes the moon at one instant.
type LunarPhase struct {
	// Fraction of the lunation elapsed since new moon, in [0, 1).
	Fraction float64 `json:"fraction"`
	// Illumination is the lit fraction of the disc, in [0, 1].
	Illumination float64 `json:"illumination"`
	// AgeDays is the time since new moon.
	AgeDays float64   `json:"age_days"`
	Name    PhaseName `json:"name"`
}

// Phase returns the moon phase at jd using a mean synodic month.
func Phase(jd hijri.JulianDay) LunarPhase {
	f := math.Mod((float64(jd)-newMoonReference)/SynodicMonth, 1.0)
	if f < 0 {
		f += 1.0
	}
	// Guard against f == 1 after adding 1 to a tiny negative remainder.
	if f >= 1.0 {
		f = 0
	}

	return LunarPhase{
		Fraction:     f,
		Illumination: (1 - math.Cos(2*math.Pi*f)) / 2,
		AgeDays:      f * SynodicMonth,
		Name:         phaseName(f),
	}
}

// phaseName buckets f into eight 0.125-wide ranges centred on the principal
// phases, so a fraction of 0.5 is a full moon.
func phaseName(f float64) PhaseName {
	idx := int(math.Floor(f*8+0.5)) % 8
	return phaseNames[idx]
}
