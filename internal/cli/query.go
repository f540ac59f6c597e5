package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " + strings.Join(prayer.AllPrayerNames, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// parseQueryDays accepts a day count, "week" or "month".
func parseQueryDays(v string) (int, error) {
	switch v {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := parseDays(v)
	if err != nil {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", v)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, ok := canonicalPrayerName(args[0])
	if !ok {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(prayer.AllPrayerNames, ", "))
	}

	days, err := parseQueryDays(flagQueryDays)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	list, err := prayer.Range(cmd.Context(), s.loc.Coord, s.date, days, s.params, s.tz)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if days == 1 {
		return printQuerySingle(w, s, name, list[0])
	}
	return printQueryMulti(w, s, name, list)
}

type queryJSONSingle struct {
	Prayer      string `json:"prayer"`
	Time        string `json:"time"`
	Date        string `json:"date"`
	Hijri       string `json:"hijri,omitempty"`
	Approximate bool   `json:"approximate,omitempty"`
}

func printQuerySingle(w io.Writer, s *session, name string, d prayer.Day) error {
	warnApproximate(d)

	cell, err := dayCell(d, name, s.timeFmt)
	if err != nil {
		return err
	}

	if FlagJSON {
		c, _ := d.Clock(name)
		out := queryJSONSingle{
			Prayer:      strings.ToLower(name),
			Time:        c.Format(s.timeFmt),
			Date:        d.Date.String(),
			Approximate: d.Times.IsApproximate(name),
		}
		if d.Hijri.Year > 0 {
			out.Hijri = d.Hijri.String()
		}
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "%s %s\n", name, cell)
	return nil
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date        string `json:"date"`
	Hijri       string `json:"hijri,omitempty"`
	Time        string `json:"time"`
	Approximate bool   `json:"approximate,omitempty"`
}

func printQueryMulti(w io.Writer, s *session, name string, days []prayer.Day) error {
	for _, d := range days {
		warnApproximate(d)
	}

	if FlagJSON {
		out := queryJSONMulti{
			Location: jsonLocation(s),
			Prayer:   strings.ToLower(name),
		}
		for _, d := range days {
			c, _ := d.Clock(name)
			jd := queryJSONDay{
				Date:        d.Date.String(),
				Time:        c.Format(s.timeFmt),
				Approximate: d.Times.IsApproximate(name),
			}
			if d.Hijri.Year > 0 {
				jd.Hijri = d.Hijri.String()
			}
			out.Days = append(out.Days, jd)
		}
		return writeJSON(w, out)
	}

	// Rich terminal output.
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("%s Times: %d Days", name, len(days))))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Date", name})
	for i, d := range days {
		cell, err := dayCell(d, name, s.timeFmt)
		if err != nil {
			return err
		}
		tbl.AddRow([]string{d.Date.Time(s.tz).Format("Mon 02 Jan"), cell})

		if s.isToday() && i == 0 {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
