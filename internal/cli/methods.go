package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List calculation methods",
		Long:  "List the supported calculation methods with their Fajr angle and Maghrib and Isha rules.",
		Args:  cobra.NoArgs,
		RunE:  runMethods,
	}
}

type methodJSON struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Fajr      float64 `json:"fajr_angle"`
	Maghrib   string  `json:"maghrib"`
	Isha      string  `json:"isha"`
	AlAdhanID int     `json:"aladhan_id"`
}

func runMethods(cmd *cobra.Command, args []string) error {
	var rows []methodJSON
	for _, m := range prayer.Methods() {
		mp, err := m.Params()
		if err != nil {
			return err
		}
		rows = append(rows, methodJSON{
			Key:       m.String(),
			Name:      mp.Name,
			Fajr:      mp.Fajr,
			Maghrib:   mp.Maghrib.String(),
			Isha:      mp.Isha.String(),
			AlAdhanID: mp.AlAdhanID,
		})
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(w, rows)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Calculation Methods"))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Key", "Name", "Fajr", "Maghrib", "Isha", "Al Adhan"})
	tbl.SetAlign(5, display.AlignRight)
	for _, r := range rows {
		tbl.AddRow([]string{
			r.Key,
			r.Name,
			strconv.FormatFloat(r.Fajr, 'g', -1, 64) + "°",
			r.Maghrib,
			r.Isha,
			strconv.Itoa(r.AlAdhanID),
		})
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
