// Package cli implements the prayer-times command tree.
package cli

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude   float64
	FlagLongitude  float64
	FlagTimezone   string
	FlagMethod     string
	FlagAsr        string
	FlagAdjust     int
	FlagJSON       bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagLogLevel   string
	FlagDate       string
)

// dotEnvFile is read from the working directory before the config loads.
const dotEnvFile = ".env"

// loadedConfig holds the config loaded during PersistentPreRunE, with
// environment overrides applied. Available to all subcommand handlers.
var loadedConfig *config.Config

// logger is configured from --log-level during PersistentPreRunE.
var logger = zerolog.Nop()

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times CLI",
		Long:    "Prayer times, Hijri dates, Qibla and moon phase, computed locally from the sun's position.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(dotEnvFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(); err != nil {
				return fmt.Errorf("invalid environment override: %w", err)
			}
			loadedConfig = cfg

			level := cfg.LogLevel
			if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
				level = FlagLogLevel
			}
			l, err := logging.Setup(cmd.ErrOrStderr(), level)
			if err != nil {
				return err
			}
			logger = l

			if FlagJSON {
				display.SetEnabled(false)
			}
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone for displayed times, e.g. Asia/Riyadh")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method (see 'methods')")
	pf.StringVar(&FlagAsr, "asr", "", "Asr convention: standard or hanafi")
	pf.IntVar(&FlagAdjust, "adjust", 0, "Minutes added to every computed time")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&FlagDate, "date", "", "Reference date YYYY-MM-DD (default: today)")

	// Register subcommands.
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newMoonCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// Flag values go through config.Set so they are validated like stored ones.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	overrides := []struct {
		flag, key string
		value     func() string
	}{
		{"latitude", "latitude", func() string { return strconv.FormatFloat(FlagLatitude, 'f', -1, 64) }},
		{"longitude", "longitude", func() string { return strconv.FormatFloat(FlagLongitude, 'f', -1, 64) }},
		{"timezone", "timezone", func() string { return FlagTimezone }},
		{"method", "method", func() string { return FlagMethod }},
		{"asr", "asr", func() string { return FlagAsr }},
		{"adjust", "adjust", func() string { return strconv.Itoa(FlagAdjust) }},
		{"cache-dir", "cache_dir", func() string { return FlagCacheDir }},
		{"time-format", "time_format", func() string { return FlagTimeFormat }},
	}
	for _, o := range overrides {
		if !flagWasSet(flags, root, o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value()); err != nil {
			return nil, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}

	cfg.FillDefaults()

	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// goTimeFormat maps the time_format setting to a Go layout.
func goTimeFormat(timeFormat string) string {
	if timeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
