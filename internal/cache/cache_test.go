package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

var (
	testDate  = hijri.GregorianDate{Year: 2024, Month: 3, Day: 11}
	testQuery = api.Query{Latitude: 21.4225, Longitude: 39.8262, Method: 4, School: 0, Timezone: "Asia/Riyadh"}
	makkah    = geo.Location{Latitude: 21.4225, Longitude: 39.8262, City: "Makkah", Country: "Saudi Arabia", Timezone: "Asia/Riyadh"}
)

func dayResponse(fajr string) *api.Response {
	return &api.Response{
		Code:   200,
		Status: "OK",
		Data: api.Data{
			Timings: api.Timings{"Fajr": fajr, "Dhuhr": "12:31 (+03)", "Isha": "20:01 (+03)"},
			Meta:    api.Meta{Timezone: "Asia/Riyadh", Method: api.MethodInfo{ID: 4, Name: "Umm Al-Qura University, Makkah"}},
		},
	}
}

func monthResponse(days int) *api.CalendarResponse {
	resp := &api.CalendarResponse{Code: 200, Status: "OK"}
	for d := 1; d <= days; d++ {
		resp.Data = append(resp.Data, dayResponse("05:19 (+03)").Data)
	}
	return resp
}

// newTestCache returns a cache in a temp dir whose clock reads *now.
func newTestCache(t *testing.T, now *time.Time) *Cache {
	t.Helper()
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if now != nil {
		c.now = func() time.Time { return *now }
	}
	return c
}

// corruptAll overwrites every file in the cache directory.
func corruptAll(t *testing.T, c *Cache) {
	t.Helper()
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("nothing to corrupt")
	}
	for _, e := range entries {
		if err := os.WriteFile(filepath.Join(c.Dir(), e.Name()), []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		c, err := New(dir)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if c.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory not created: %v", err)
		}
	})

	t.Run("default respects XDG_CACHE_HOME", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", base)

		c, err := New("")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if want := filepath.Join(base, "prayer-times"); c.Dir() != want {
			t.Errorf("Dir() = %q, want %q", c.Dir(), want)
		}
	})

	t.Run("unwritable parent", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := New(filepath.Join(file, "sub")); err == nil {
			t.Error("New under a regular file should fail")
		}
	})
}

// ---------------------------------------------------------------------------
// Reference timings
// ---------------------------------------------------------------------------

func TestTimings(t *testing.T) {
	c := newTestCache(t, nil)

	if got := c.LoadTimings(testDate, testQuery); got != nil {
		t.Fatalf("empty cache returned %+v", got)
	}
	if err := c.SaveTimings(testDate, testQuery, dayResponse("05:20 (+03)")); err != nil {
		t.Fatalf("SaveTimings: %v", err)
	}

	got := c.LoadTimings(testDate, testQuery)
	if got == nil {
		t.Fatal("LoadTimings returned nil after save")
	}
	if v, _ := got.Timings.Get("Fajr"); v != "05:20 (+03)" {
		t.Errorf("Fajr = %q", v)
	}
	if got.Date != testDate || got.Method != 4 || got.Meta.Timezone != "Asia/Riyadh" {
		t.Errorf("entry = %+v", got)
	}
}

func TestTimings_KeyedByRequest(t *testing.T) {
	c := newTestCache(t, nil)
	if err := c.SaveTimings(testDate, testQuery, dayResponse("05:20")); err != nil {
		t.Fatal(err)
	}

	hanafi := testQuery
	hanafi.School = 1
	otherZone := testQuery
	otherZone.Timezone = ""
	moved := testQuery
	moved.Latitude += 0.0001

	tests := []struct {
		name string
		date hijri.GregorianDate
		q    api.Query
	}{
		{"other date", hijri.GregorianDate{Year: 2024, Month: 3, Day: 12}, testQuery},
		{"other school", testDate, hanafi},
		{"no zone", testDate, otherZone},
		{"moved", testDate, moved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.LoadTimings(tt.date, tt.q); got != nil {
				t.Errorf("LoadTimings hit for a different request: %+v", got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Reference calendars
// ---------------------------------------------------------------------------

func TestCalendar(t *testing.T) {
	c := newTestCache(t, nil)

	if got := c.LoadCalendar(2024, 3, testQuery); got != nil {
		t.Fatalf("empty cache returned %+v", got)
	}
	if err := c.SaveCalendar(2024, 3, testQuery, monthResponse(31)); err != nil {
		t.Fatalf("SaveCalendar: %v", err)
	}

	got := c.LoadCalendar(2024, 3, testQuery)
	if got == nil {
		t.Fatal("LoadCalendar returned nil after save")
	}
	if len(got.Days) != 31 || got.Year != 2024 || got.Month != 3 {
		t.Errorf("entry = %d days for %d-%d", len(got.Days), got.Year, got.Month)
	}

	for _, ym := range [][2]int{{2024, 4}, {2025, 3}} {
		if c.LoadCalendar(ym[0], ym[1], testQuery) != nil {
			t.Errorf("LoadCalendar(%d, %d) hit for a different month", ym[0], ym[1])
		}
	}
}

// ---------------------------------------------------------------------------
// Geolocation
// ---------------------------------------------------------------------------

func TestGeo_TTL(t *testing.T) {
	now := time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC)
	c := newTestCache(t, &now)

	if c.LoadGeo() != nil {
		t.Fatal("empty cache returned a location")
	}
	if err := c.SaveGeo(&makkah); err != nil {
		t.Fatalf("SaveGeo: %v", err)
	}

	tests := []struct {
		age  time.Duration
		want bool
	}{
		{0, true},
		{23 * time.Hour, true},
		{geoTTL, true},
		{geoTTL + time.Second, false},
	}
	saved := now
	for _, tt := range tests {
		now = saved.Add(tt.age)
		got := c.LoadGeo()
		if (got != nil) != tt.want {
			t.Errorf("LoadGeo after %v = %v, want hit %v", tt.age, got, tt.want)
		}
		if got != nil && *got != makkah {
			t.Errorf("LoadGeo = %+v, want %+v", *got, makkah)
		}
	}
}

// ---------------------------------------------------------------------------
// Corruption
// ---------------------------------------------------------------------------

func TestCorruptEntriesAreMisses(t *testing.T) {
	c := newTestCache(t, nil)
	if err := c.SaveTimings(testDate, testQuery, dayResponse("05:20")); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveCalendar(2024, 3, testQuery, monthResponse(2)); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveGeo(&makkah); err != nil {
		t.Fatal(err)
	}
	corruptAll(t, c)

	if c.LoadTimings(testDate, testQuery) != nil {
		t.Error("corrupt timings entry should be a miss")
	}
	if c.LoadCalendar(2024, 3, testQuery) != nil {
		t.Error("corrupt calendar entry should be a miss")
	}
	if c.LoadGeo() != nil {
		t.Error("corrupt geolocation entry should be a miss")
	}

	// A fresh save replaces the corrupt file.
	if err := c.SaveGeo(&makkah); err != nil {
		t.Fatal(err)
	}
	if c.LoadGeo() == nil {
		t.Error("LoadGeo after re-save should hit")
	}
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func TestKeys(t *testing.T) {
	day := cacheKey(testDate, testQuery)
	if len(day) != 16 {
		t.Errorf("cacheKey length = %d, want 16", len(day))
	}
	if day != cacheKey(testDate, testQuery) {
		t.Error("cacheKey is not deterministic")
	}

	month := calendarKey(2024, 3, testQuery)
	if month == day {
		t.Error("day and month keys should differ")
	}
	if month == calendarKey(2024, 4, testQuery) {
		t.Error("calendarKey should depend on the month")
	}
}
