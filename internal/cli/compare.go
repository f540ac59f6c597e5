package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

var flagCompareMonth bool

// remoteSource fetches reference timings. *api.Client satisfies it.
type remoteSource interface {
	FetchTimings(ctx context.Context, date hijri.GregorianDate, q api.Query) (*api.Response, error)
	FetchCalendar(ctx context.Context, year, month int, q api.Query) (*api.CalendarResponse, error)
}

// Overridable in tests.
var newAPIClient = func() remoteSource { return api.NewClient().WithLogger(logger) }

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare local times with the Al Adhan API",
		Long: "Compute prayer times locally and show the difference, in minutes, from the Al Adhan API\n" +
			"for the same location, method and Asr convention. Responses are cached.",
		Args: cobra.NoArgs,
		RunE: runCompare,
	}
	cmd.Flags().BoolVar(&flagCompareMonth, "month", false, "Compare every day of the reference date's month")
	return cmd
}

// compareRow is one prayer on one day. Remote and Diff are empty when the
// API gave nothing usable.
type compareRow struct {
	Date   string `json:"date"`
	Prayer string `json:"prayer"`
	Local  string `json:"local"`
	Remote string `json:"remote,omitempty"`
	Diff   *int   `json:"diff_minutes,omitempty"`
}

type compareJSON struct {
	Location  todayJSONLocation `json:"location"`
	Method    string            `json:"method"`
	AlAdhanID int               `json:"aladhan_method"`
	Asr       string            `json:"asr"`
	Rows      []compareRow      `json:"rows"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	mp, err := s.params.Method.Params()
	if err != nil {
		return err
	}
	q := apiQuery(s, mp.AlAdhanID)
	ctx := cmd.Context()

	var (
		local  []prayer.Day
		remote map[hijri.GregorianDate]api.Timings
	)
	if flagCompareMonth {
		local, err = prayer.Month(ctx, s.loc.Coord, s.date.Year, s.date.Month, s.params, s.tz)
		if err != nil {
			return err
		}
		remote, err = remoteMonth(ctx, s, q, s.date.Year, s.date.Month)
	} else {
		day, cerr := prayer.Compute(s.loc.Coord, s.date, s.params, s.tz)
		if cerr != nil {
			return cerr
		}
		local = []prayer.Day{day}
		remote, err = remoteDay(ctx, s, q, s.date)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Al Adhan request failed; showing local times only")
	}

	rows, err := compareDays(local, remote, s.selected)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(w, compareJSON{
			Location:  jsonLocation(s),
			Method:    s.params.Method.String(),
			AlAdhanID: mp.AlAdhanID,
			Asr:       s.params.Asr.String(),
			Rows:      rows,
		})
	}
	printCompare(w, s, rows, flagCompareMonth)
	return nil
}

// apiQuery describes the session to the Al Adhan API.
func apiQuery(s *session, methodID int) api.Query {
	q := api.Query{
		Latitude:  s.loc.Coord.Latitude,
		Longitude: s.loc.Coord.Longitude,
		Method:    methodID,
		School:    int(s.params.Asr),
	}
	if name := s.tz.String(); name != "Local" && name != "" {
		q.Timezone = name
	}
	return q
}

// remoteDay returns the API timings for one date, from cache when possible.
func remoteDay(ctx context.Context, s *session, q api.Query, date hijri.GregorianDate) (map[hijri.GregorianDate]api.Timings, error) {
	if s.cache != nil {
		if e := s.cache.LoadTimings(date, q); e != nil {
			logger.Debug().Stringer("date", date).Msg("compare: timings from cache")
			return map[hijri.GregorianDate]api.Timings{date: e.Timings}, nil
		}
	}

	resp, err := newAPIClient().FetchTimings(ctx, date, q)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveTimings(date, q, resp); err != nil {
			logger.Warn().Err(err).Msg("could not cache timings")
		}
	}
	return map[hijri.GregorianDate]api.Timings{date: resp.Data.Timings}, nil
}

// remoteMonth returns the API timings for a Gregorian month keyed by date.
func remoteMonth(ctx context.Context, s *session, q api.Query, year, month int) (map[hijri.GregorianDate]api.Timings, error) {
	var days []api.Data
	if s.cache != nil {
		if e := s.cache.LoadCalendar(year, month, q); e != nil {
			logger.Debug().Int("year", year).Int("month", month).Msg("compare: calendar from cache")
			days = e.Days
		}
	}

	if days == nil {
		resp, err := newAPIClient().FetchCalendar(ctx, year, month, q)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SaveCalendar(year, month, q, resp); err != nil {
				logger.Warn().Err(err).Msg("could not cache calendar")
			}
		}
		days = resp.Data
	}

	out := make(map[hijri.GregorianDate]api.Timings, len(days))
	for _, d := range days {
		date, err := d.Date.Gregorian.Parse()
		if err != nil {
			logger.Warn().Err(err).Msg("skipping calendar entry")
			continue
		}
		out[date] = d.Timings
	}
	return out, nil
}

// compareDays pairs every selected local time with its remote counterpart.
func compareDays(local []prayer.Day, remote map[hijri.GregorianDate]api.Timings, names []string) ([]compareRow, error) {
	rows := make([]compareRow, 0, len(local)*len(names))
	for _, d := range local {
		timings, haveRemote := remote[d.Date]
		for _, name := range names {
			lc, ok := d.Clock(name)
			if !ok {
				return nil, fmt.Errorf("unknown prayer name: %s", name)
			}
			row := compareRow{
				Date:   d.Date.String(),
				Prayer: name,
				Local:  lc.String(),
			}
			if haveRemote {
				if raw, ok := timings.Get(name); ok {
					if rc, err := prayer.ParseClock(raw); err == nil {
						diff := rc.DiffMinutes(lc)
						row.Remote = rc.String()
						row.Diff = &diff
					}
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func printCompare(w io.Writer, s *session, rows []compareRow, withDate bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Local vs Al Adhan"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintf(w, "  %s\n", display.Gray(methodLabel(s)))
	fmt.Fprintln(w)

	headers := []string{"Prayer", "Local", "Al Adhan", "Diff"}
	if withDate {
		headers = append([]string{"Date"}, headers...)
	}
	tbl := display.NewTable(headers)
	tbl.SetAlign(len(headers)-1, display.AlignRight)
	for _, r := range rows {
		remote, diff := "-", "-"
		if r.Diff != nil {
			remote = r.Remote
			diff = formatDiff(*r.Diff)
		}
		row := []string{r.Prayer, r.Local, remote, diff}
		if withDate {
			row = append([]string{r.Date}, row...)
		}
		tbl.AddRow(row)
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
}

// formatDiff renders a minute difference, coloured by size.
func formatDiff(d int) string {
	s := fmt.Sprintf("%+d min", d)
	switch {
	case d == 0:
		return display.Green(strings.Replace(s, "+", "", 1))
	case d >= -2 && d <= 2:
		return display.Yellow(s)
	default:
		return display.Red(s)
	}
}
