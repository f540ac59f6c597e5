package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThe output is a single line suitable for status bars.",
		Args:  cobra.NoArgs,
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: "+strings.Join(prayer.Formats, ", ")+", or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	if !prayer.IsValidFormat(flagFormat) {
		return fmt.Errorf("unknown format %q; valid formats: %s, or a Go template", flagFormat, strings.Join(prayer.Formats, ", "))
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > defaults.
	selected := s.selected
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		selected, err = parsePrayerList(flagPrayers)
		if err != nil {
			return err
		}
	}

	next, err := prayer.NextAfter(s.loc.Coord, s.now, s.params, selected)
	if err != nil {
		return err
	}
	if next.Approximate {
		logger.Warn().Str("prayer", next.Name).Msg("next prayer time is approximate")
	}

	// Format and print.
	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(*next, s.now, flagFormat, s.timeFmt))
	return nil
}

// parsePrayerList splits and validates a comma-separated prayer list.
func parsePrayerList(raw string) ([]string, error) {
	var names []string
	for _, n := range strings.Split(raw, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		name, ok := canonicalPrayerName(n)
		if !ok {
			return nil, fmt.Errorf("unknown prayer %q; valid names: %s", n, strings.Join(prayer.AllPrayerNames, ", "))
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("empty prayer list")
	}
	return names, nil
}

// canonicalPrayerName matches name case-insensitively against AllPrayerNames.
func canonicalPrayerName(name string) (string, bool) {
	for _, n := range prayer.AllPrayerNames {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
