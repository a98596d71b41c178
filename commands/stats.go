package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cppla/fotos/models"
	"github.com/cppla/fotos/store"
)

type statsOutput struct {
	store.Stats
	Home       int `json:"home"`
	Exhibition int `json:"exhibition"`
	Rejected   int `json:"rejected"`
}

func newStatsCommand(cc *commandContext) *cobra.Command {
	var in string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count the photos of an export file by size and location",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := readExport(in)
			if err != nil {
				return err
			}
			home, exhibition := store.PartitionByLocation(res.Photos)
			out := statsOutput{
				Stats:      store.CountBySize(res.Photos),
				Home:       len(home),
				Exhibition: len(exhibition),
				Rejected:   len(res.Rejected),
			}
			if asJSON {
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			rows := [][]string{
				{models.SizeSmall.Label(), strconv.Itoa(out.Small)},
				{models.SizeMedium.Label(), strconv.Itoa(out.Medium)},
				{models.SizeLarge.Label(), strconv.Itoa(out.Large)},
				{string(models.LocationHome), strconv.Itoa(out.Home)},
				{string(models.LocationExhibition), strconv.Itoa(out.Exhibition)},
				{"Total", strconv.Itoa(out.Total)},
			}
			fmt.Fprintln(w, renderTable([]string{"", "Fotos"}, rows, []columnAlignment{alignLeft, alignRight}, shouldColorize(w)))
			if out.Rejected > 0 {
				fmt.Fprintf(w, "%d record(s) rejected, run validate for details\n", out.Rejected)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Export file to read")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
