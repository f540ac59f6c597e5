package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/astro"
	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/events"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

var (
	flagToGregorian bool
	flagUpcoming    int
)

// localDate returns the positional date argument, --date, or today in the
// configured timezone. No location lookup is needed.
func localDate(cmd *cobra.Command, args []string) (hijri.GregorianDate, time.Time, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return hijri.GregorianDate{}, time.Time{}, err
	}
	tz, err := resolveTimezone(cfg.Timezone, "")
	if err != nil {
		return hijri.GregorianDate{}, time.Time{}, err
	}
	t := now().In(tz)

	if len(args) > 0 {
		d, err := hijri.ParseGregorian(args[0])
		return d, t, err
	}
	d, err := referenceDate(t)
	return d, t, err
}

// ---------------------------------------------------------------------------
// hijri
// ---------------------------------------------------------------------------

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri [YYYY-MM-DD]",
		Short: "Convert between Gregorian and Hijri dates",
		Long: "Convert a Gregorian date (default: today) to the tabular Hijri calendar and describe its month.\n" +
			"With --to-gregorian the argument is read as a Hijri date instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: runHijri,
	}
	cmd.Flags().BoolVar(&flagToGregorian, "to-gregorian", false, "Treat the argument as a Hijri date and convert it to Gregorian")
	return cmd
}

type hijriJSON struct {
	Gregorian hijri.GregorianDate `json:"gregorian"`
	Weekday   string              `json:"weekday"`
	Hijri     hijri.HijriDate     `json:"hijri"`
	Formatted string              `json:"formatted"`
	Month     hijri.MonthInfo     `json:"month"`
	LeapYear  bool                `json:"leap_year"`
	Events    []string            `json:"events,omitempty"`
}

func runHijri(cmd *cobra.Command, args []string) error {
	var (
		g   hijri.GregorianDate
		h   hijri.HijriDate
		err error
	)

	if flagToGregorian {
		if len(args) == 0 {
			return fmt.Errorf("--to-gregorian needs a Hijri date argument (YYYY-MM-DD)")
		}
		if h, err = hijri.ParseHijri(args[0]); err != nil {
			return err
		}
		if g, err = hijri.HijriToGregorian(h); err != nil {
			return err
		}
	} else {
		if g, _, err = localDate(cmd, args); err != nil {
			return err
		}
		if h, err = hijri.GregorianToHijri(g); err != nil {
			return err
		}
	}

	month, err := hijri.MonthOf(h.Year, h.Month)
	if err != nil {
		return err
	}
	jd, err := g.JulianDay()
	if err != nil {
		return err
	}

	out := hijriJSON{
		Gregorian: g,
		Weekday:   jd.Weekday().String(),
		Hijri:     h,
		Formatted: h.Format(),
		Month:     month,
		LeapYear:  hijri.IsHijriLeapYear(h.Year),
	}
	for _, e := range events.On(h.Month, h.Day) {
		out.Events = append(out.Events, e.Name)
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(w, out)
	}
	printHijri(w, out)
	return nil
}

func printHijri(w io.Writer, v hijriJSON) {
	year := "common year (354 days)"
	if v.LeapYear {
		year = "leap year (355 days)"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-10s %s\n", "Gregorian", formatGregorianDate(v.Gregorian))
	fmt.Fprintf(w, "  %-10s %s\n", "Hijri", display.Bold(v.Formatted))
	fmt.Fprintf(w, "  %-10s %s (%s), %d days, %s to %s\n", "Month",
		v.Month.Name, v.Month.ArabicName, v.Month.Days, v.Month.Start, v.Month.End)
	fmt.Fprintf(w, "  %-10s %d AH, %s\n", "Year", v.Hijri.Year, year)
	for _, e := range v.Events {
		fmt.Fprintf(w, "  %-10s %s\n", "Event", display.Green(e))
	}
	fmt.Fprintln(w)
}

// ---------------------------------------------------------------------------
// moon
// ---------------------------------------------------------------------------

func newMoonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moon [YYYY-MM-DD]",
		Short: "Show the moon phase",
		Long:  "Show the moon's phase, illumination and age now, or at noon UTC on the given date.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMoon,
	}
}

type moonJSON struct {
	At string `json:"at"`
	astro.LunarPhase
}

func runMoon(cmd *cobra.Command, args []string) error {
	var jd hijri.JulianDay
	var at string

	if len(args) > 0 || FlagDate != "" {
		d, _, err := localDate(cmd, args)
		if err != nil {
			return err
		}
		midnight, err := d.JulianDay()
		if err != nil {
			return err
		}
		jd = midnight + 0.5
		at = d.String() + "T12:00:00Z"
	} else {
		t := now().UTC()
		jd = hijri.JulianDayFromTime(t)
		at = t.Format(time.RFC3339)
	}

	phase := astro.Phase(jd)

	w := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(w, moonJSON{At: at, LunarPhase: phase})
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(string(phase.Name)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-13s %.1f%%\n", "Illumination", phase.Illumination*100)
	fmt.Fprintf(w, "  %-13s %.1f days\n", "Age", phase.AgeDays)
	fmt.Fprintf(w, "  %-13s %s\n", "At", at)
	fmt.Fprintln(w)
	return nil
}

// ---------------------------------------------------------------------------
// events
// ---------------------------------------------------------------------------

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events [hijri-year]",
		Short: "List Islamic observances",
		Long:  "List the observances of a Hijri year (default: the current one) with their Gregorian dates.\nWith --upcoming N, list the next N observances from today or --date instead.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvents,
	}
	cmd.Flags().IntVar(&flagUpcoming, "upcoming", 0, "List the next N observances instead of a whole year")
	return cmd
}

func runEvents(cmd *cobra.Command, args []string) error {
	today, _, err := localDate(cmd, nil)
	if err != nil {
		return err
	}

	var (
		occ   []events.Occurrence
		title string
	)
	switch {
	case flagUpcoming > 0:
		if len(args) > 0 {
			return fmt.Errorf("--upcoming cannot be combined with a year")
		}
		if occ, err = events.Upcoming(today, flagUpcoming); err != nil {
			return err
		}
		title = fmt.Sprintf("Upcoming Observances from %s", today)
	default:
		year := 0
		if len(args) > 0 {
			if year, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid hijri year %q", args[0])
			}
		} else {
			h, err := hijri.GregorianToHijri(today)
			if err != nil {
				return err
			}
			year = h.Year
		}
		if occ, err = events.InYear(year); err != nil {
			return err
		}
		title = fmt.Sprintf("Observances in %d AH", year)
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(w, occ)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(title))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Hijri", "Gregorian", "Observance"})
	for i, o := range occ {
		tbl.AddRow([]string{
			o.Hijri.Format(),
			o.Gregorian.Time(time.UTC).Format("Mon 02 Jan 2006"),
			o.Event.Name,
		})
		if o.Gregorian == today {
			tbl.SetHighlightRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
