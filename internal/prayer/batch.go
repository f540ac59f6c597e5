package prayer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// Day is every computed time for one date.
type Day struct {
	Date  hijri.GregorianDate `json:"date"`
	Hijri hijri.HijriDate     `json:"hijri"`
	Times TimeSet             `json:"times"`
	Night NightTimes          `json:"night"`
}

// Clock returns the named time from either the prayers or the night times.
func (d Day) Clock(name string) (Clock, bool) {
	if c, ok := d.Times.Get(name); ok {
		return c, true
	}
	return d.Night.Get(name)
}

// OffsetAt returns loc's UTC offset in hours at noon on date, so that a DST
// change in the small hours does not affect the day's times.
func OffsetAt(loc *time.Location, date hijri.GregorianDate) float64 {
	noon := time.Date(date.Year, time.Month(date.Month), date.Day, 12, 0, 0, 0, loc)
	_, secs := noon.Zone()
	return float64(secs) / 3600
}

// Compute returns the full Day for date. When loc is not nil it replaces
// p.UTCOffset with loc's offset on that date.
func Compute(c geo.Coordinate, date hijri.GregorianDate, p Params, loc *time.Location) (Day, error) {
	if loc != nil {
		p.UTCOffset = OffsetAt(loc, date)
	}

	times, err := Calculate(c, date, p)
	if err != nil {
		return Day{}, err
	}
	night, err := CalculateNight(c, date, p)
	if err != nil {
		return Day{}, err
	}
	h, err := hijri.GregorianToHijri(date)
	if err != nil {
		// Dates before 1 AH still have prayer times.
		h = hijri.HijriDate{}
	}

	return Day{Date: date, Hijri: h, Times: times, Night: night}, nil
}

// Range computes days consecutive dates starting at start. Dates are computed
// concurrently and returned in order; the first error cancels the rest.
func Range(ctx context.Context, c geo.Coordinate, start hijri.GregorianDate, days int, p Params, loc *time.Location) ([]Day, error) {
	if days < 0 {
		return nil, fmt.Errorf("negative day count %d", days)
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}

	out := make([]Day, days)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range out {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		date := start.AddDays(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := Compute(c, date, p, loc)
			if err != nil {
				return fmt.Errorf("computing %s: %w", date, err)
			}
			out[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Month computes every day of a Gregorian month.
func Month(ctx context.Context, c geo.Coordinate, year, month int, p Params, loc *time.Location) ([]Day, error) {
	n := hijri.DaysInGregorianMonth(year, month)
	if n == 0 {
		return nil, fmt.Errorf("%w: month %d", hijri.ErrInvalidDate, month)
	}
	return Range(ctx, c, hijri.GregorianDate{Year: year, Month: month, Day: 1}, n, p, loc)
}
