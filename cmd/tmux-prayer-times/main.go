package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/miqat/internal/cache"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/logging"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

// configKeys maps flags onto the config keys they override.
var configKeys = map[string]string{
	"latitude":    "latitude",
	"longitude":   "longitude",
	"timezone":    "timezone",
	"method":      "method",
	"asr":         "asr",
	"adjust":      "adjust",
	"time-format": "time_format",
	"prayers":     "prayers",
	"cache-dir":   "cache_dir",
	"log-level":   "log_level",
}

// detector looks up the caller's location.
type detector interface {
	Detect(ctx context.Context) (*geo.Location, error)
}

// newDetector is overridable in tests.
var newDetector = func() detector { return geo.NewDetector() }

// flags holds the options that are not config keys.
type flags struct {
	format      *string
	version     *bool
	listMethods *bool
}

func newFlagSet() (*pflag.FlagSet, flags) {
	fs := pflag.NewFlagSet("tmux-prayer-times", pflag.ContinueOnError)

	// Location flags
	fs.Float64("latitude", 0, "Latitude for prayer time calculation")
	fs.Float64("longitude", 0, "Longitude for prayer time calculation")
	fs.String("timezone", "", "IANA timezone, e.g. Asia/Riyadh (default: detected or system zone)")

	// Calculation flags
	fs.String("method", "", "Calculation method: "+strings.Join(prayer.MethodKeys(), ", "))
	fs.String("asr", "", "Asr convention: standard or hanafi")
	fs.Int("adjust", 0, "Minutes added to every computed time")

	// Display flags
	var f flags
	f.format = fs.String("format", prayer.FormatNameAndTime, "Display format: "+strings.Join(prayer.Formats, ", ")+", or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}'). Template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes, .Approximate")
	fs.String("time-format", "24h", "Time format: 12h or 24h")
	fs.String("prayers", "", "Comma-separated list of prayers to track (default: Fajr,Sunrise,Dhuhr,Asr,Maghrib,Isha)")

	// Cache and logging flags
	fs.String("cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	fs.String("log-level", "", "Log level: debug, info, warn or error")

	// Info flags
	f.version = fs.Bool("version", false, "Print version and exit")
	f.listMethods = fs.Bool("list-methods", false, "Print supported calculation methods and exit")

	return fs, f
}

func main() {
	fs, f := newFlagSet()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *f.version {
		fmt.Printf("tmux-prayer-times %s\n", version)
		return
	}

	if *f.listMethods {
		printMethods(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, fs, *f.format); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// execute merges config, environment and flags, then prints the next prayer.
func execute(ctx context.Context, fs *pflag.FlagSet, format string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	if err := applyFlags(cfg, fs); err != nil {
		return err
	}

	log, err := logging.Setup(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	return run(ctx, cfg, format, time.Now(), os.Stdout, log)
}

// applyFlags copies every explicitly set flag into cfg, validating it the
// way `prayer-times config set` does.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := configKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if setErr := cfg.Set(key, f.Value.String()); setErr != nil {
			err = fmt.Errorf("--%s: %w", f.Name, setErr)
		}
	})
	return err
}

// printMethods prints the table of supported calculation methods.
func printMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-8s %-6s %-8s %-8s %s\n", "Key", "Fajr", "Maghrib", "Isha", "Name")
	fmt.Fprintf(w, "  %-8s %-6s %-8s %-8s %s\n", "───", "────", "───────", "────", "────")
	for _, m := range prayer.Methods() {
		mp, err := m.Params()
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "  %-8s %-6s %-8s %-8s %s\n",
			m, fmt.Sprintf("%g°", mp.Fajr), mp.Maghrib, mp.Isha, mp.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <Key> to select a calculation method (default: MWL).")
}

func run(ctx context.Context, cfg *config.Config, format string, now time.Time, out io.Writer, log zerolog.Logger) error {
	if !prayer.IsValidFormat(format) {
		return fmt.Errorf("unknown format %q; valid formats: %s, or a Go template", format, strings.Join(prayer.Formats, ", "))
	}

	// Determine which prayers to track.
	selected := prayer.DefaultPrayerNames
	if names := cfg.PrayerNames(); len(names) > 0 {
		selected = names
	}

	goTimeFmt := "15:04" // 24h
	if cfg.TimeFormat == "12h" {
		goTimeFmt = "3:04 PM"
	}

	// Cache init failure is non-fatal; we just skip caching.
	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	} else {
		c = c.WithLogger(log)
	}

	coord, tzHint, err := resolveLocation(ctx, cfg, c, log)
	if err != nil {
		return err
	}

	tzName := cfg.Timezone
	if tzName == "" {
		tzName = tzHint
	}
	loc := time.Local
	if tzName != "" {
		if loc, err = time.LoadLocation(tzName); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
	}

	// Anchor "now" to the prayer location's zone so the day boundary and
	// the printed times agree.
	now = now.In(loc)

	params := prayer.Params{
		Method: cfg.MethodOrDefault(prayer.MWL),
		Asr:    cfg.AsrOrDefault(prayer.AsrStandard),
		Adjust: cfg.AdjustOrDefault(0),
	}

	next, err := prayer.NextAfter(coord, now, params, selected)
	if err != nil {
		return err
	}
	if next.Approximate {
		log.Warn().Str("prayer", next.Name).Msg("next prayer time is approximate")
	}

	fmt.Fprint(out, prayer.FormatOutput(*next, now, format, goTimeFmt))
	return nil
}

// resolveLocation returns the configured coordinate, then the cached
// detection, then a fresh IP detection. The second result is a timezone hint.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache, log zerolog.Logger) (geo.Coordinate, string, error) {
	if coord, ok := cfg.Coordinate(); ok {
		return coord, "", nil
	}
	if (cfg.Latitude == nil) != (cfg.Longitude == nil) {
		return geo.Coordinate{}, "", errors.New("--latitude and --longitude must be set together")
	}

	// Try cached geolocation first.
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return cached.Coordinate(), cached.Timezone, nil
		}
	}

	// Fall back to IP-based geolocation.
	detected, err := newDetector().Detect(ctx)
	if err != nil {
		return geo.Coordinate{}, "", fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if err := detected.Coordinate().Validate(); err != nil {
		return geo.Coordinate{}, "", fmt.Errorf("detected location: %w", err)
	}

	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Warn().Err(err).Msg("could not cache detected location")
		}
	}

	return detected.Coordinate(), detected.Timezone, nil
}
