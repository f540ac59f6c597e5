package prayer

import (
	"context"
	"testing"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

var (
	kaaba   = geo.Coordinate{Latitude: 21.4225, Longitude: 39.8262}
	london  = geo.Coordinate{Latitude: 51.5074, Longitude: -0.1278}
	newYork = geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	tehran  = geo.Coordinate{Latitude: 35.6892, Longitude: 51.3890}
	cairo   = geo.Coordinate{Latitude: 30.0444, Longitude: 31.2357}
	karachi = geo.Coordinate{Latitude: 24.8607, Longitude: 67.0011}
	sydney  = geo.Coordinate{Latitude: -33.8688, Longitude: 151.2093}
	tromso  = geo.Coordinate{Latitude: 69.6492, Longitude: 18.9553}
)

func date(y, m, d int) hijri.GregorianDate {
	return hijri.GregorianDate{Year: y, Month: m, Day: d}
}

// assertClock allows one minute either way for rounding at a half-minute.
func assertClock(t *testing.T, want string, got Clock, name string) {
	t.Helper()
	w, err := ParseClock(want)
	require.NoError(t, err)
	assert.LessOrEqual(t, abs(w.DiffMinutes(got)), 1, "%s: got %s, want %s", name, got, want)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ---------------------------------------------------------------------------
// Calculate
// ---------------------------------------------------------------------------

func TestCalculate_ReferenceTimes(t *testing.T) {
	tests := []struct {
		name   string
		c      geo.Coordinate
		date   hijri.GregorianDate
		p      Params
		want   [6]string // Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha
		approx []string
	}{
		{"makkah mwl", kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: 3},
			[6]string{"05:19", "06:32", "12:31", "15:54", "18:29", "19:38"}, nil},
		{"makkah umm al-qura", kaaba, date(2024, 3, 11), Params{Method: Makkah, UTCOffset: 3},
			[6]string{"05:16", "06:32", "12:31", "15:54", "18:29", "19:59"}, nil},
		{"london winter", london, date(2024, 12, 21), Params{Method: MWL},
			[6]string{"06:00", "08:04", "11:59", "13:38", "15:54", "17:51"}, nil},
		{"new york isna", newYork, date(2024, 3, 11), Params{Method: ISNA, UTCOffset: -4},
			[6]string{"05:58", "07:13", "13:06", "16:24", "18:59", "20:14"}, nil},
		{"new york hanafi", newYork, date(2024, 3, 11), Params{Method: ISNA, Asr: AsrHanafi, UTCOffset: -4},
			[6]string{"05:58", "07:13", "13:06", "17:13", "18:59", "20:14"}, nil},
		{"tehran", tehran, date(2024, 3, 11), Params{Method: Tehran, UTCOffset: 3.5},
			[6]string{"04:57", "06:20", "12:14", "15:35", "18:27", "19:13"}, nil},
		{"jafari", tehran, date(2024, 3, 11), Params{Method: Jafari, UTCOffset: 3.5},
			[6]string{"05:05", "06:20", "12:14", "15:35", "18:24", "19:13"}, nil},
		{"cairo egypt", cairo, date(2024, 3, 11), Params{Method: Egypt, UTCOffset: 2},
			[6]string{"04:43", "06:09", "12:05", "15:28", "18:01", "19:18"}, nil},
		{"karachi", karachi, date(2024, 3, 11), Params{Method: Karachi, UTCOffset: 5},
			[6]string{"05:29", "06:45", "12:42", "16:06", "18:39", "19:55"}, nil},
		{"sydney winter", sydney, date(2024, 6, 21), Params{Method: MWL, UTCOffset: 10},
			[6]string{"05:31", "07:00", "11:57", "14:36", "16:54", "18:18"}, nil},
		{"london midsummer", london, date(2024, 6, 21), Params{Method: MWL, UTCOffset: 1},
			[6]string{"01:02", "04:43", "13:02", "17:25", "21:22", "01:02"}, []string{Fajr, Isha}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.c, tt.date, tt.p)
			require.NoError(t, err)

			names := [6]string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}
			for i, name := range names {
				c, ok := got.Get(name)
				require.True(t, ok)
				assertClock(t, tt.want[i], c, name)
			}
			assert.Equal(t, tt.approx, got.Approximate)
		})
	}
}

func TestCalculate_Ordered(t *testing.T) {
	places := []geo.Coordinate{kaaba, london, newYork, tehran, cairo, karachi, sydney}
	for lat := -65.0; lat <= 65; lat += 2.5 {
		for lon := -180.0; lon < 180; lon += 45 {
			places = append(places, geo.Coordinate{Latitude: lat, Longitude: lon})
		}
	}

	violations := 0
	for _, m := range Methods() {
		for _, c := range places {
			for day := 0; day < 366; day += 2 {
				d := date(2024, 1, 1).AddDays(day)
				for _, asr := range []AsrConvention{AsrStandard, AsrHanafi} {
					// Noon at the meridian, so every time falls on the same local day.
					p := Params{Method: m, Asr: asr, UTCOffset: c.Longitude / 15}
					got, err := Calculate(c, d, p)
					require.NoError(t, err)
					if len(got.Approximate) > 0 {
						continue
					}
					seq := []Clock{got.Fajr, got.Sunrise, got.Dhuhr, got.Asr, got.Maghrib, got.Isha}
					for i := 1; i < len(seq); i++ {
						if seq[i-1] >= seq[i] {
							violations++
							if violations <= 5 {
								t.Errorf("%s %v %s: %+v out of order", m, c, d, got)
							}
							break
						}
					}
				}
			}
		}
	}
	assert.Zero(t, violations)
}

func TestCalculate_OutsideDayIsApproximate(t *testing.T) {
	tests := []struct {
		name    string
		c       geo.Coordinate
		date    hijri.GregorianDate
		p       Params
		wrapped string
		want    string
	}{
		// Dawn falls just before local midnight of the previous day.
		{"fajr before midnight", geo.Coordinate{Latitude: -60, Longitude: 45}, date(2024, 10, 24),
			Params{Method: MWL, UTCOffset: 3}, Fajr, "23:53"},
		// Sunset at 23:28 puts Isha 90 minutes later, past midnight.
		{"isha after midnight", geo.Coordinate{Latitude: 60, Longitude: 0}, date(2024, 6, 21),
			Params{Method: Makkah, UTCOffset: 2}, Isha, "00:58"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.c, tt.date, tt.p)
			require.NoError(t, err)

			c, ok := got.Get(tt.wrapped)
			require.True(t, ok)
			assertClock(t, tt.want, c, tt.wrapped)
			assert.True(t, got.IsApproximate(tt.wrapped), "approximate = %v", got.Approximate)
			assert.False(t, got.IsApproximate(Dhuhr))
		})
	}
}

func TestCalculate_MakkahWrappedIshaKeepsMaghribExact(t *testing.T) {
	got, err := Calculate(geo.Coordinate{Latitude: 60}, date(2024, 6, 21), Params{Method: Makkah, UTCOffset: 2})
	require.NoError(t, err)

	assert.False(t, got.IsApproximate(Maghrib))
	assert.True(t, got.IsApproximate(Isha))
	assert.Equal(t, 90, got.Maghrib.DiffMinutes(got.Isha))
}

func TestOutsideDay(t *testing.T) {
	tests := []struct {
		h    float64
		want bool
	}{
		{0, false},
		{12, false},
		{23.99, false},
		{-0.001, false}, // rounds to 00:00
		{-0.01, true},
		{23.995, true}, // rounds to 24:00
		{24.5, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outsideDay(tt.h), "h=%v", tt.h)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	p := Params{Method: Makkah, Asr: AsrHanafi, Adjust: 2, UTCOffset: 3}
	first, err := Calculate(kaaba, date(2024, 3, 11), p)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Calculate(kaaba, date(2024, 3, 11), p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculate_DhuhrNearSolarNoon(t *testing.T) {
	got, err := Calculate(kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: 3})
	require.NoError(t, err)

	// Mean noon at 39.8262°E is 12:21 local; the equation of time is -10 min.
	assertClock(t, "12:31", got.Dhuhr, Dhuhr)
}

func TestCalculate_MakkahIshaFollowsMaghrib(t *testing.T) {
	for day := 0; day < 365; day += 30 {
		got, err := Calculate(kaaba, date(2024, 1, 1).AddDays(day), Params{Method: Makkah, UTCOffset: 3})
		require.NoError(t, err)
		assert.Equal(t, 90, got.Maghrib.DiffMinutes(got.Isha))
	}
}

func TestCalculate_UTCOffsetShiftsClock(t *testing.T) {
	base, err := Calculate(kaaba, date(2024, 3, 11), Params{Method: MWL})
	require.NoError(t, err)
	shifted, err := Calculate(kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: 3})
	require.NoError(t, err)

	assert.Equal(t, base.Fajr.Add(180), shifted.Fajr)
	assert.Equal(t, base.Dhuhr.Add(180), shifted.Dhuhr)
	assert.Equal(t, base.Isha.Add(180), shifted.Isha)
}

func TestCalculate_OffsetWrapsIntoDay(t *testing.T) {
	got, err := Calculate(kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: -12})
	require.NoError(t, err)

	assertClock(t, "14:19", got.Fajr, Fajr)
	assertClock(t, "21:31", got.Dhuhr, Dhuhr)
	assertClock(t, "00:54", got.Asr, Asr)
	assertClock(t, "04:38", got.Isha, Isha)
	for _, c := range []Clock{got.Fajr, got.Sunrise, got.Dhuhr, got.Asr, got.Maghrib, got.Isha} {
		assert.GreaterOrEqual(t, int(c), 0)
		assert.Less(t, int(c), minutesPerDay)
	}
}

func TestCalculate_Adjust(t *testing.T) {
	base, err := Calculate(kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: 3})
	require.NoError(t, err)

	tests := []struct {
		adjust int
		want   string
	}{
		{5, "05:24"},
		{-600, "19:19"},
		{1440, "05:19"},
	}
	for _, tt := range tests {
		got, err := Calculate(kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: 3, Adjust: tt.adjust})
		require.NoError(t, err)
		assert.Equal(t, base.Fajr.Add(tt.adjust), got.Fajr)
		assertClock(t, tt.want, got.Fajr, Fajr)
	}
}

func TestCalculate_PolarDayIsApproximate(t *testing.T) {
	got, err := Calculate(tromso, date(2024, 6, 21), Params{Method: MWL, UTCOffset: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{Fajr, Sunrise, Maghrib, Isha}, got.Approximate)
	assert.True(t, got.IsApproximate(Sunrise))
	assert.False(t, got.IsApproximate(Dhuhr))
	assertClock(t, "12:46", got.Dhuhr, Dhuhr)
}

func TestCalculate_PolarNightIsApproximate(t *testing.T) {
	got, err := Calculate(tromso, date(2024, 12, 21), Params{Method: MWL, UTCOffset: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{Sunrise, Maghrib}, got.Approximate)
	// The sun never rises, so sunrise collapses onto transit.
	assert.Equal(t, got.Dhuhr, got.Sunrise)
}

func TestCalculate_NearPole(t *testing.T) {
	for _, lat := range []float64{89.9, -89.9, 90, -90} {
		got, err := Calculate(geo.Coordinate{Latitude: lat}, date(2024, 6, 21), Params{Method: MWL})
		require.NoError(t, err, "lat %v", lat)
		assert.NotEmpty(t, got.Approximate, "lat %v", lat)
	}
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name string
		c    geo.Coordinate
		date hijri.GregorianDate
		p    Params
		want error
	}{
		{"latitude", geo.Coordinate{Latitude: 91}, date(2024, 3, 11), Params{}, geo.ErrInvalidLatitude},
		{"longitude", geo.Coordinate{Longitude: 200}, date(2024, 3, 11), Params{}, geo.ErrInvalidLongitude},
		{"date", kaaba, date(2023, 2, 29), Params{}, hijri.ErrInvalidDate},
		{"month", kaaba, date(2024, 13, 1), Params{}, hijri.ErrInvalidDate},
		{"method", kaaba, date(2024, 3, 11), Params{Method: Method(42)}, ErrUnknownMethod},
		{"asr", kaaba, date(2024, 3, 11), Params{Asr: AsrConvention(7)}, ErrUnknownAsr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.c, tt.date, tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculate_SunriseMatchesGoSunrise(t *testing.T) {
	places := []geo.Coordinate{kaaba, london, newYork, cairo, sydney, karachi}

	for _, c := range places {
		for month := 1; month <= 12; month++ {
			d := date(2024, month, 15)
			got, err := Calculate(c, d, Params{Method: MWL})
			require.NoError(t, err)

			rise, set := sunrise.SunriseSunset(c.Latitude, c.Longitude, d.Year, time.Month(d.Month), d.Day)
			wantRise := ClockFromHours(float64(rise.UTC().Hour()) + float64(rise.UTC().Minute())/60 + float64(rise.UTC().Second())/3600)
			wantSet := ClockFromHours(float64(set.UTC().Hour()) + float64(set.UTC().Minute())/60 + float64(set.UTC().Second())/3600)

			assert.LessOrEqual(t, abs(wantRise.DiffMinutes(got.Sunrise)), 3, "sunrise %v %s", c, d)
			assert.LessOrEqual(t, abs(wantSet.DiffMinutes(got.Maghrib)), 3, "sunset %v %s", c, d)
		}
	}
}

// ---------------------------------------------------------------------------
// CalculateNight
// ---------------------------------------------------------------------------

func TestCalculateNight(t *testing.T) {
	tests := []struct {
		name string
		c    geo.Coordinate
		date hijri.GregorianDate
		p    Params
		want [5]string // Imsak, Sunset, Midnight, Firstthird, Lastthird
	}{
		{"makkah", kaaba, date(2024, 3, 11), Params{Method: MWL, UTCOffset: 3},
			[5]string{"05:09", "18:29", "23:53", "22:05", "01:41"}},
		{"london winter", london, date(2024, 12, 21), Params{Method: MWL},
			[5]string{"05:50", "15:54", "22:57", "20:36", "01:18"}},
		{"new york", newYork, date(2024, 3, 11), Params{Method: ISNA, UTCOffset: -4},
			[5]string{"05:48", "18:59", "00:27", "22:38", "02:17"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateNight(tt.c, tt.date, tt.p)
			require.NoError(t, err)

			names := [5]string{Imsak, Sunset, Midnight, Firstthird, Lastthird}
			for i, name := range names {
				c, ok := got.Get(name)
				require.True(t, ok)
				assertClock(t, tt.want[i], c, name)
			}
		})
	}
}

func TestCalculateNight_ImsakPrecedesFajr(t *testing.T) {
	p := Params{Method: Egypt, UTCOffset: 2, Adjust: 3}
	times, err := Calculate(cairo, date(2024, 3, 11), p)
	require.NoError(t, err)
	night, err := CalculateNight(cairo, date(2024, 3, 11), p)
	require.NoError(t, err)

	assert.Equal(t, times.Fajr.Add(-10), night.Imsak)
}

func TestCalculateNight_Errors(t *testing.T) {
	_, err := CalculateNight(geo.Coordinate{Latitude: -91}, date(2024, 3, 11), Params{})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

// ---------------------------------------------------------------------------
// Compute / Month / Range
// ---------------------------------------------------------------------------

func TestCompute_UsesLocationOffset(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	summer, err := Compute(london, date(2024, 6, 21), Params{Method: MWL, UTCOffset: 9}, loc)
	require.NoError(t, err)
	assertClock(t, "13:02", summer.Times.Dhuhr, Dhuhr)

	winter, err := Compute(london, date(2024, 12, 21), Params{Method: MWL}, loc)
	require.NoError(t, err)
	assertClock(t, "11:59", winter.Times.Dhuhr, Dhuhr)
	assert.Equal(t, hijri.HijriDate{Year: 1446, Month: 6, Day: 19}, winter.Hijri)

	c, ok := winter.Clock(Midnight)
	require.True(t, ok)
	assertClock(t, "22:57", c, Midnight)
	_, ok = winter.Clock("Tahajjud")
	assert.False(t, ok)
}

func TestOffsetAt(t *testing.T) {
	tests := []struct {
		zone string
		date hijri.GregorianDate
		want float64
	}{
		{"Europe/London", date(2024, 6, 21), 1},
		{"Europe/London", date(2024, 12, 21), 0},
		{"America/New_York", date(2024, 3, 11), -4},
		{"Asia/Kolkata", date(2024, 3, 11), 5.5},
	}

	for _, tt := range tests {
		loc, err := time.LoadLocation(tt.zone)
		if err != nil {
			t.Skipf("tzdata unavailable: %v", err)
		}
		assert.Equal(t, tt.want, OffsetAt(loc, tt.date), "%s %s", tt.zone, tt.date)
	}
}

func TestMonth(t *testing.T) {
	p := Params{Method: Makkah, UTCOffset: 3}
	days, err := Month(context.Background(), kaaba, 2024, 3, p, nil)
	require.NoError(t, err)
	require.Len(t, days, 31)

	for i, d := range days {
		assert.Equal(t, date(2024, 3, 1).AddDays(i), d.Date)

		want, err := Compute(kaaba, d.Date, p, nil)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}
	assert.Equal(t, hijri.HijriDate{Year: 1445, Month: 9, Day: 1}, days[10].Hijri)
}

func TestMonth_LeapFebruary(t *testing.T) {
	days, err := Month(context.Background(), kaaba, 2024, 2, Params{}, nil)
	require.NoError(t, err)
	assert.Len(t, days, 29)
}

func TestMonth_Errors(t *testing.T) {
	_, err := Month(context.Background(), kaaba, 2024, 13, Params{}, nil)
	assert.ErrorIs(t, err, hijri.ErrInvalidDate)

	_, err = Month(context.Background(), geo.Coordinate{Latitude: 99}, 2024, 3, Params{}, nil)
	assert.ErrorIs(t, err, geo.ErrInvalidLatitude)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Month(ctx, kaaba, 2024, 3, Params{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRange(t *testing.T) {
	days, err := Range(context.Background(), kaaba, date(2024, 12, 30), 4, Params{}, nil)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, date(2025, 1, 2), days[3].Date)

	days, err = Range(context.Background(), kaaba, date(2024, 12, 30), 0, Params{}, nil)
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = Range(context.Background(), kaaba, date(2024, 12, 30), -1, Params{}, nil)
	assert.Error(t, err)

	_, err = Range(context.Background(), kaaba, date(2024, 2, 30), 3, Params{}, nil)
	assert.ErrorIs(t, err, hijri.ErrInvalidDate)
}
