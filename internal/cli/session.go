package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/cache"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// Overridable in tests.
var (
	now         = time.Now
	newDetector = func() locationDetector { return geo.NewDetector() }
)

// locationDetector looks up the caller's location.
type locationDetector interface {
	Detect(ctx context.Context) (*geo.Location, error)
}

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	Coord    geo.Coordinate
	City     string
	Country  string
	Timezone string // optional hint from geo-detection
	Source   string // "config", "cache" or "detected"
}

// session is the state shared by commands that need a location.
type session struct {
	cfg      *config.Config
	cache    *cache.Cache
	loc      resolvedLocation
	tz       *time.Location
	params   prayer.Params
	selected []string
	timeFmt  string
	now      time.Time
	date     hijri.GregorianDate
}

// newSession merges configuration and resolves the location, timezone and
// reference date for cmd.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		cache:   openCache(cfg.CacheDir),
		timeFmt: goTimeFormat(cfg.TimeFormat),
		params: prayer.Params{
			Method: cfg.MethodOrDefault(prayer.MWL),
			Asr:    cfg.AsrOrDefault(prayer.AsrStandard),
			Adjust: cfg.AdjustOrDefault(0),
		},
		selected: prayer.DefaultPrayerNames,
	}
	if names := cfg.PrayerNames(); len(names) > 0 {
		s.selected = names
	}

	s.loc, err = resolveLocation(cmd.Context(), cfg, s.cache)
	if err != nil {
		return nil, err
	}

	s.tz, err = resolveTimezone(cfg.Timezone, s.loc.Timezone)
	if err != nil {
		return nil, err
	}

	s.now = now().In(s.tz)
	s.date, err = referenceDate(s.now)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", s.loc.Source).
		Stringer("coordinate", s.loc.Coord).
		Str("timezone", s.tz.String()).
		Stringer("method", s.params.Method).
		Stringer("date", s.date).
		Msg("session resolved")
	return s, nil
}

// isToday reports whether the reference date is the current local date.
func (s *session) isToday() bool {
	return s.date == hijri.FromTime(s.now)
}

// openCache returns the file cache, or nil with a warning when it cannot be
// created. Caching is best-effort.
func openCache(dir string) *cache.Cache {
	c, err := cache.New(dir)
	if err != nil {
		logger.Warn().Err(err).Msg("cache disabled")
		return nil
	}
	return c.WithLogger(logger)
}

// resolveLocation determines the effective location.
// Priority: CLI flags > environment > config > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (resolvedLocation, error) {
	if coord, ok := cfg.Coordinate(); ok {
		return resolvedLocation{
			Coord:   coord,
			City:    cfg.City,
			Country: cfg.Country,
			Source:  "config",
		}, nil
	}
	if (cfg.Latitude == nil) != (cfg.Longitude == nil) {
		return resolvedLocation{}, errors.New("latitude and longitude must be set together")
	}

	// Try cached geolocation first.
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return fromDetected(cached, "cache")
		}
	}

	// Fall back to IP-based geolocation.
	detected, err := newDetector().Detect(ctx)
	if err != nil {
		return resolvedLocation{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}

	// Cache the detected location.
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			logger.Warn().Err(err).Msg("could not cache detected location")
		}
	}

	return fromDetected(detected, "detected")
}

func fromDetected(l *geo.Location, source string) (resolvedLocation, error) {
	if err := l.Coordinate().Validate(); err != nil {
		return resolvedLocation{}, fmt.Errorf("%s location: %w", source, err)
	}
	return resolvedLocation{
		Coord:    l.Coordinate(),
		City:     l.City,
		Country:  l.Country,
		Timezone: l.Timezone,
		Source:   source,
	}, nil
}

// resolveTimezone picks the configured zone, then the detected one, then the
// system zone.
func resolveTimezone(configured, detected string) (*time.Location, error) {
	for _, name := range []string{configured, detected} {
		if name == "" {
			continue
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
		}
		return loc, nil
	}
	return time.Local, nil
}

// referenceDate returns --date when given, otherwise today in now's zone.
func referenceDate(now time.Time) (hijri.GregorianDate, error) {
	if FlagDate == "" {
		return hijri.FromTime(now), nil
	}
	d, err := hijri.ParseGregorian(FlagDate)
	if err != nil {
		return hijri.GregorianDate{}, fmt.Errorf("--date: %w", err)
	}
	return d, nil
}

// buildLocationStr builds a "City, Country" string from available data.
func buildLocationStr(loc resolvedLocation) string {
	if loc.City != "" && loc.Country != "" {
		return loc.City + ", " + loc.Country
	}
	// Fall back to coordinates.
	return loc.Coord.String()
}

// warnApproximate logs every approximate time of d.
func warnApproximate(d prayer.Day) {
	for _, name := range d.Times.Approximate {
		logger.Warn().
			Str("prayer", name).
			Stringer("date", d.Date).
			Msg("time is approximate: the sun never reaches its angle or it falls outside the day")
	}
}
