package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/qibla"
)

func newQiblaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qibla",
		Short: "Show the Qibla direction",
		Long:  "Show the great-circle bearing from true north and the distance to the Kaaba in Makkah.",
		Args:  cobra.NoArgs,
		RunE:  runQibla,
	}
}

type qiblaJSON struct {
	Location   todayJSONLocation `json:"location"`
	Bearing    float64           `json:"bearing"`
	Octant     qibla.Octant      `json:"octant"`
	DistanceKm float64           `json:"distance_km"`
}

func runQibla(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	b, err := qibla.Compute(s.loc.Coord)
	if err != nil {
		return err
	}
	km, err := qibla.Distance(s.loc.Coord)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(w, qiblaJSON{
			Location:   jsonLocation(s),
			Bearing:    b.Degrees,
			Octant:     b.Octant,
			DistanceKm: km,
		})
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Qibla"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-9s %s\n", "Bearing", display.Accent(fmt.Sprintf("%.1f° %s", b.Degrees, b.Octant)))
	fmt.Fprintf(w, "  %-9s %.0f km\n", "Distance", km)
	fmt.Fprintln(w)
	return nil
}
