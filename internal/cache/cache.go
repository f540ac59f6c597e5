// Package cache stores Al Adhan reference responses and the last detected
// location as small JSON files.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

const (
	timingsCacheFile  = "timings_%s.json"  // keyed by hash
	calendarCacheFile = "calendar_%s.json" // keyed by hash
	geoCacheFile      = "geolocation.json"
	geoTTL            = 24 * time.Hour
)

// Cache provides file-based caching for reference timings and geolocation data.
type Cache struct {
	dir string
	log zerolog.Logger
	now func() time.Time
}

// TimingsEntry stores one day's reference times along with the request that
// produced them.
type TimingsEntry struct {
	Date    hijri.GregorianDate `json:"date"`
	Method  int                 `json:"method"`
	School  int                 `json:"school"`
	Timings api.Timings         `json:"timings"`
	Meta    api.Meta            `json:"meta"`
}

// CalendarEntry stores a month of reference times.
type CalendarEntry struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Method int        `json:"method"`
	School int        `json:"school"`
	Days   []api.Data `json:"days"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir returns ~/.cache/prayer-times, respecting $XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "prayer-times"), nil
}

// New creates a Cache rooted at the given directory, or DefaultDir when dir
// is empty.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, log: zerolog.Nop(), now: time.Now}, nil
}

// WithLogger sets the logger used for cache misses and returns c.
func (c *Cache) WithLogger(l zerolog.Logger) *Cache {
	c.log = l
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// queryKey covers every request field that changes the API's answer.
func queryKey(q api.Query) string {
	return fmt.Sprintf("%.6f|%.6f|%s|%d|%d", q.Latitude, q.Longitude, q.Timezone, q.Method, q.School)
}

// cacheKey builds a deterministic hash for a single day's request.
func cacheKey(date hijri.GregorianDate, q api.Query) string {
	return hashKey(date.String() + "|" + queryKey(q))
}

// calendarKey builds a deterministic hash for a month request.
func calendarKey(year, month int, q api.Query) string {
	return hashKey(fmt.Sprintf("%04d-%02d|%s", year, month, queryKey(q)))
}

func hashKey(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// LoadTimings returns the cached reference day for date and q, or nil when
// the entry is missing, unreadable, or for another date.
func (c *Cache) LoadTimings(date hijri.GregorianDate, q api.Query) *TimingsEntry {
	path := filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, cacheKey(date, q)))

	var entry TimingsEntry
	if !c.read(path, &entry) {
		return nil
	}
	if entry.Date != date {
		c.log.Debug().Str("path", path).Msg("stale timings cache entry")
		return nil
	}
	return &entry
}

// SaveTimings writes a reference day to the cache.
func (c *Cache) SaveTimings(date hijri.GregorianDate, q api.Query, resp *api.Response) error {
	path := filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, cacheKey(date, q)))

	return c.write(path, TimingsEntry{
		Date:    date,
		Method:  q.Method,
		School:  q.School,
		Timings: resp.Data.Timings,
		Meta:    resp.Data.Meta,
	})
}

// LoadCalendar returns the cached reference month, or nil on a miss.
func (c *Cache) LoadCalendar(year, month int, q api.Query) *CalendarEntry {
	path := filepath.Join(c.dir, fmt.Sprintf(calendarCacheFile, calendarKey(year, month, q)))

	var entry CalendarEntry
	if !c.read(path, &entry) {
		return nil
	}
	if entry.Year != year || entry.Month != month {
		c.log.Debug().Str("path", path).Msg("stale calendar cache entry")
		return nil
	}
	return &entry
}

// SaveCalendar writes a reference month to the cache.
func (c *Cache) SaveCalendar(year, month int, q api.Query, resp *api.CalendarResponse) error {
	path := filepath.Join(c.dir, fmt.Sprintf(calendarCacheFile, calendarKey(year, month, q)))

	return c.write(path, CalendarEntry{
		Year:   year,
		Month:  month,
		Method: q.Method,
		School: q.School,
		Days:   resp.Data,
	})
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	var entry GeoCacheEntry
	if !c.read(path, &entry) {
		return nil
	}
	if c.now().Sub(entry.CachedAt) > geoTTL {
		c.log.Debug().Time("cached_at", entry.CachedAt).Msg("geolocation cache expired")
		return nil
	}
	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	return c.write(path, GeoCacheEntry{
		Location: *loc,
		CachedAt: c.now(),
	})
}

func (c *Cache) read(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		c.log.Debug().Str("path", path).Msg("cache miss")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("corrupt cache entry")
		return false
	}
	return true
}

func (c *Cache) write(path string, entry any) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
