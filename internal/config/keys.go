package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/logging"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// EnvPrefix is prepended to the upper-cased key for environment overrides.
const EnvPrefix = "PRAYER_TIMES_"

// maxAdjust bounds the global minute offset.
const maxAdjust = 120

// key binds one settable name to its field.
type key struct {
	name string
	get  func(c *Config) string
	set  func(c *Config, v string) error
}

// keys is ordered as `config` lists them.
var keys = []key{
	{"city", func(c *Config) string { return c.City }, func(c *Config, v string) error { c.City = v; return nil }},
	{"country", func(c *Config) string { return c.Country }, func(c *Config, v string) error { c.Country = v; return nil }},
	{"latitude", func(c *Config) string { return formatFloat(c.Latitude) }, setLatitude},
	{"longitude", func(c *Config) string { return formatFloat(c.Longitude) }, setLongitude},
	{"timezone", func(c *Config) string { return c.Timezone }, func(c *Config, v string) error {
		if _, err := time.LoadLocation(v); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", v, err)
		}
		c.Timezone = v
		return nil
	}},
	{"method", func(c *Config) string { return c.Method }, func(c *Config, v string) error {
		m, err := prayer.ParseMethod(v)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be one of %s", v, strings.Join(prayer.MethodKeys(), ", "))
		}
		c.Method = m.String()
		return nil
	}},
	{"asr", func(c *Config) string { return c.Asr }, func(c *Config, v string) error {
		a, err := prayer.ParseAsr(v)
		if err != nil {
			return fmt.Errorf("invalid asr %q: must be \"standard\" or \"hanafi\"", v)
		}
		c.Asr = a.String()
		return nil
	}},
	{"adjust", func(c *Config) string {
		if c.Adjust == nil {
			return ""
		}
		return strconv.Itoa(*c.Adjust)
	}, func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid adjust %q: must be an integer", v)
		}
		if n < -maxAdjust || n > maxAdjust {
			return fmt.Errorf("invalid adjust %q: must be between %d and %d minutes", v, -maxAdjust, maxAdjust)
		}
		c.Adjust = &n
		return nil
	}},
	{"time_format", func(c *Config) string { return c.TimeFormat }, func(c *Config, v string) error {
		if v != "12h" && v != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", v)
		}
		c.TimeFormat = v
		return nil
	}},
	{"prayers", func(c *Config) string { return c.Prayers }, func(c *Config, v string) error {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); !prayer.IsValidName(n) {
				return fmt.Errorf("invalid prayer name %q in prayers list", n)
			}
		}
		c.Prayers = v
		return nil
	}},
	{"cache_dir", func(c *Config) string { return c.CacheDir }, func(c *Config, v string) error { c.CacheDir = v; return nil }},
	{"log_level", func(c *Config) string { return c.LogLevel }, func(c *Config, v string) error {
		if _, err := logging.ParseLevel(v); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
		return nil
	}},
}

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = func() []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.name
	}
	return names
}()

func lookupKey(name string) (key, bool) {
	for _, k := range keys {
		if k.name == name {
			return k, true
		}
	}
	return key{}, false
}

// Set parses value into the field named by key.
func (c *Config) Set(name, value string) error {
	k, ok := lookupKey(name)
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", name, strings.Join(ValidKeys, ", "))
	}
	return k.set(c, value)
}

// Get returns the stored value of key, or "" when unset.
func (c *Config) Get(name string) (string, error) {
	k, ok := lookupKey(name)
	if !ok {
		return "", fmt.Errorf("unknown config key %q", name)
	}
	return k.get(c), nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv overrides c with any non-empty PRAYER_TIMES_<KEY> variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, k := range keys {
		v, ok := lookup(EnvName(k.name))
		if !ok || v == "" {
			continue
		}
		if err := k.set(c, v); err != nil {
			return fmt.Errorf("%s: %w", EnvName(k.name), err)
		}
	}
	return nil
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func setLatitude(c *Config, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q: must be a number", v)
	}
	if err := (geo.Coordinate{Latitude: f}).Validate(); err != nil {
		return fmt.Errorf("invalid latitude %q: must be between -90 and 90", v)
	}
	c.Latitude = &f
	return nil
}

func setLongitude(c *Config, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q: must be a number", v)
	}
	if err := (geo.Coordinate{Longitude: f}).Validate(); err != nil {
		return fmt.Errorf("invalid longitude %q: must be between -180 and 180", v)
	}
	c.Longitude = &f
	return nil
}
