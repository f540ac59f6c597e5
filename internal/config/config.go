// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-times/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment
// (PRAYER_TIMES_<KEY>, optionally from a .env file) > config file > defaults.
package config

import (
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/logging"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	// City and Country are display labels only.
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	// Pointers keep the equator and the prime meridian apart from "not set".
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Timezone  string   `json:"timezone,omitempty"` // IANA name
	Method    string   `json:"method,omitempty"`   // method key
	Asr       string   `json:"asr,omitempty"`      // "standard" or "hanafi"
	// Adjust is added to every computed time, in minutes.
	Adjust     *int   `json:"adjust,omitempty"`
	TimeFormat string `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers    string `json:"prayers,omitempty"`     // comma-separated
	CacheDir   string `json:"cache_dir,omitempty"`
	LogLevel   string `json:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	adjust := 0
	return Config{
		Method:     prayer.MWL.String(),
		Asr:        prayer.AsrStandard.String(),
		Adjust:     &adjust,
		TimeFormat: "24h",
		LogLevel:   logging.DefaultLevel.String(),
	}
}

// FillDefaults sets every calculation and display key still unset in c to
// its default. Location keys are left alone.
func (c *Config) FillDefaults() {
	d := Defaults()
	if c.Method == "" {
		c.Method = d.Method
	}
	if c.Asr == "" {
		c.Asr = d.Asr
	}
	if c.Adjust == nil {
		c.Adjust = d.Adjust
	}
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
}

// Coordinate returns the configured location, if both halves are set.
func (c *Config) Coordinate() (geo.Coordinate, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}, true
}

// MethodOrDefault returns the configured method, or def when it is unset or
// unrecognised (a hand-edited file).
func (c *Config) MethodOrDefault(def prayer.Method) prayer.Method {
	if m, err := prayer.ParseMethod(c.Method); err == nil {
		return m
	}
	return def
}

// AsrOrDefault returns the configured Asr convention, or def.
func (c *Config) AsrOrDefault(def prayer.AsrConvention) prayer.AsrConvention {
	if a, err := prayer.ParseAsr(c.Asr); err == nil {
		return a
	}
	return def
}

// AdjustOrDefault returns the minute offset, or def when unset.
func (c *Config) AdjustOrDefault(def int) int {
	if c.Adjust == nil {
		return def
	}
	return *c.Adjust
}

// PrayerNames returns the configured prayer list, or nil when unset.
func (c *Config) PrayerNames() []string {
	var names []string
	for _, n := range strings.Split(c.Prayers, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
