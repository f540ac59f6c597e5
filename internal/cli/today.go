package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/events"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer schedule",
		Long:  "Display the prayer schedule, Hijri date and observances for today (or --date), with a countdown to the next prayer.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	day, err := prayer.Compute(s.loc.Coord, s.date, s.params, s.tz)
	if err != nil {
		return err
	}
	warnApproximate(day)

	prayers, err := prayer.Schedule(day, s.tz, s.selected)
	if err != nil {
		return err
	}

	// Current and next only make sense on the current date.
	var current, next *prayer.Prayer
	if s.isToday() {
		current = prayer.CurrentPrayer(prayers, s.now)
		next = prayer.NextPrayer(prayers, s.now)
	}

	observances := events.On(day.Hijri.Month, day.Hijri.Day)

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), s, day, prayers, current, next, observances)
	}

	printTodayRich(cmd.OutOrStdout(), s, day, prayers, current, next, observances)
	return nil
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, s *session, day prayer.Day, prayers []prayer.Prayer, current, next *prayer.Prayer, observances []events.Event) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	// Location and date info.
	fmt.Fprintf(w, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintf(w, "  %s\n", s.tz)
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(day.Date))
	if h := formatHijriDate(day.Hijri); h != "" {
		fmt.Fprintf(w, "  %s\n", h)
	}
	for _, e := range observances {
		fmt.Fprintf(w, "  %s\n", display.Green(e.Name))
	}
	fmt.Fprintf(w, "  %s\n", display.Gray(methodLabel(s)))

	fmt.Fprintln(w)

	// Find the max prayer name length for alignment.
	maxNameLen := 0
	for _, p := range prayers {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	// Print each prayer.
	for _, p := range prayers {
		timeStr := formatPrayerTime(p, s.timeFmt)
		line := fmt.Sprintf("  %s  %s", padRight(p.Name, maxNameLen), timeStr)

		switch {
		case current != nil && p.Name == current.Name:
			// Current prayer: dimmed.
			fmt.Fprintln(w, display.Dim(line))
		case next != nil && p.Name == next.Name:
			// Next prayer: accent color + countdown.
			remaining := prayer.FormatRemaining(p.Until(s.now))
			suffix := fmt.Sprintf("  <- next in %s", remaining)
			fmt.Fprintln(w, display.Accent(line)+display.Accent(suffix))
		case p.Approximate:
			fmt.Fprintln(w, display.Yellow(line))
		default:
			fmt.Fprintln(w, line)
		}
	}

	if len(day.Times.Approximate) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Yellow("~ approximate: the sun does not reach this angle, or the time falls outside today"))
	}

	fmt.Fprintln(w)
}

// formatPrayerTime formats p's time, marking clamped times with "~".
func formatPrayerTime(p prayer.Prayer, timeFmt string) string {
	t := p.Time.Format(timeFmt)
	if p.Approximate {
		return "~" + t
	}
	return t
}

// formatGregorianDate returns e.g. "Saturday, 28 February 2026".
func formatGregorianDate(d hijri.GregorianDate) string {
	return d.Time(time.UTC).Format("Monday, 02 January 2006")
}

// formatHijriDate returns "" for dates before the Hijri epoch.
func formatHijriDate(h hijri.HijriDate) string {
	if h.Year < 1 {
		return ""
	}
	return h.Format()
}

// methodLabel describes the calculation conventions in use.
func methodLabel(s *session) string {
	label := s.params.Method.String()
	if mp, err := s.params.Method.Params(); err == nil {
		label = mp.Name
	}
	label += ", " + s.params.Asr.String() + " Asr"
	if s.params.Adjust != 0 {
		label += fmt.Sprintf(", %+d min", s.params.Adjust)
	}
	return label
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location    todayJSONLocation `json:"location"`
	Method      string            `json:"method"`
	Asr         string            `json:"asr"`
	Date        todayJSONDate     `json:"date"`
	Timings     map[string]string `json:"timings"`
	Approximate []string          `json:"approximate,omitempty"`
	Events      []string          `json:"events,omitempty"`
	Current     string            `json:"current,omitempty"`
	Next        *todayJSONNext    `json:"next,omitempty"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func jsonLocation(s *session) todayJSONLocation {
	return todayJSONLocation{
		City:      s.loc.City,
		Country:   s.loc.Country,
		Timezone:  s.tz.String(),
		Latitude:  s.loc.Coord.Latitude,
		Longitude: s.loc.Coord.Longitude,
	}
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, day prayer.Day, prayers []prayer.Prayer, current, next *prayer.Prayer, observances []events.Event) error {
	timings := make(map[string]string)
	for _, p := range prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(s.timeFmt)
	}

	out := todayJSON{
		Location: jsonLocation(s),
		Method:   s.params.Method.String(),
		Asr:      s.params.Asr.String(),
		Date: todayJSONDate{
			Gregorian: day.Date.String(),
		},
		Timings:     timings,
		Approximate: day.Times.Approximate,
	}
	if day.Hijri.Year > 0 {
		out.Date.Hijri = day.Hijri.String()
	}
	for _, e := range observances {
		out.Events = append(out.Events, e.Name)
	}

	if current != nil {
		out.Current = strings.ToLower(current.Name)
	}

	if next != nil {
		remaining := prayer.FormatRemaining(next.Until(s.now))
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.timeFmt),
			Remaining: remaining,
		}
	}

	return writeJSON(w, out)
}

// writeJSON writes v indented, followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
