package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// maxListDays bounds list and query ranges.
const maxListDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days starting at today or --date (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := 7
			if len(args) > 0 {
				n, err := parseDays(args[0])
				if err != nil {
					return err
				}
				days = n
			}
			return runList(cmd, days)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show prayer times for a calendar month",
		Long:  "Display a grid of prayer times for every day of a Gregorian month (default: the month of today or --date).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonth,
	}
}

// parseDays parses a positive day count.
func parseDays(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > maxListDays {
		return 0, fmt.Errorf("invalid number of days: %q (must be an integer between 1 and %d)", arg, maxListDays)
	}
	return n, nil
}

// runList is the handler for the list and week subcommands.
func runList(cmd *cobra.Command, days int) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	list, err := prayer.Range(cmd.Context(), s.loc.Coord, s.date, days, s.params, s.tz)
	if err != nil {
		return err
	}

	return renderDays(cmd.OutOrStdout(), s, fmt.Sprintf("Prayer Times: %d Days", days), list)
}

func runMonth(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	year, month := s.date.Year, s.date.Month
	if len(args) > 0 {
		year, month, err = parseYearMonth(args[0])
		if err != nil {
			return err
		}
	}

	list, err := prayer.Month(cmd.Context(), s.loc.Coord, year, month, s.params, s.tz)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Prayer Times: %s", list[0].Date.Time(s.tz).Format("January 2006"))
	return renderDays(cmd.OutOrStdout(), s, title, list)
}

// parseYearMonth parses "YYYY-MM".
func parseYearMonth(arg string) (int, int, error) {
	d, err := hijri.ParseGregorian(arg + "-01")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", arg)
	}
	return d.Year, d.Month, nil
}

// renderDays prints days as a table, or as JSON with --json.
func renderDays(w io.Writer, s *session, title string, days []prayer.Day) error {
	for _, d := range days {
		warnApproximate(d)
	}

	if FlagJSON {
		return printListJSON(w, s, days)
	}

	// Rich terminal output.
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintf(w, "  %s\n", display.Gray(methodLabel(s)))
	fmt.Fprintln(w)

	// Build table.
	headers := []string{"Date", "Hijri"}
	headers = append(headers, s.selected...)
	tbl := display.NewTable(headers)

	today := hijri.FromTime(s.now)
	for i, d := range days {
		row := []string{
			d.Date.Time(s.tz).Format("Mon 02 Jan"),
			shortHijri(d.Hijri),
		}
		for _, name := range s.selected {
			cell, err := dayCell(d, name, s.timeFmt)
			if err != nil {
				return err
			}
			row = append(row, cell)
		}
		tbl.AddRow(row)

		// Highlight today's row.
		if d.Date == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

// dayCell formats one named time of d, marking clamped times with "~".
func dayCell(d prayer.Day, name, timeFmt string) (string, error) {
	c, ok := d.Clock(name)
	if !ok {
		return "", fmt.Errorf("unknown prayer name: %s", name)
	}
	if d.Times.IsApproximate(name) {
		return "~" + c.Format(timeFmt), nil
	}
	return c.Format(timeFmt), nil
}

// shortHijri returns e.g. "11 Ramadan", or "" before the Hijri epoch.
func shortHijri(h hijri.HijriDate) string {
	if h.Year < 1 {
		return ""
	}
	return fmt.Sprintf("%d %s", h.Day, hijri.MonthName(h.Month))
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Method   string            `json:"method"`
	Asr      string            `json:"asr"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date        string            `json:"date"`
	Hijri       string            `json:"hijri,omitempty"`
	Timings     map[string]string `json:"timings"`
	Approximate []string          `json:"approximate,omitempty"`
}

func printListJSON(w io.Writer, s *session, days []prayer.Day) error {
	out := listJSONOutput{
		Location: jsonLocation(s),
		Method:   s.params.Method.String(),
		Asr:      s.params.Asr.String(),
		Days:     make([]listJSONDay, 0, len(days)),
	}

	for _, d := range days {
		timings := make(map[string]string)
		for _, name := range s.selected {
			c, ok := d.Clock(name)
			if !ok {
				return fmt.Errorf("unknown prayer name: %s", name)
			}
			timings[strings.ToLower(name)] = c.Format(s.timeFmt)
		}

		jd := listJSONDay{
			Date:        d.Date.String(),
			Timings:     timings,
			Approximate: d.Times.Approximate,
		}
		if d.Hijri.Year > 0 {
			jd.Hijri = d.Hijri.String()
		}
		out.Days = append(out.Days, jd)
	}

	return writeJSON(w, out)
}
