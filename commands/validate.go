package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cppla/fotos/transfer"
)

type validateOutput struct {
	Valid    int                 `json:"valid"`
	Rejected []transfer.Rejected `json:"rejected"`
	Version  string              `json:"version,omitempty"`
}

func newValidateCommand(cc *commandContext) *cobra.Command {
	var in string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report which records of an export file an import would accept",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := readExport(in)
			if err != nil && !errors.Is(err, transfer.ErrNoValidRecords) {
				return err
			}
			out := validateOutput{Valid: len(res.Photos), Rejected: res.Rejected, Version: res.Version}
			if out.Rejected == nil {
				out.Rejected = []transfer.Rejected{}
			}

			if asJSON {
				if jerr := writeJSON(cmd, out); jerr != nil {
					return jerr
				}
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d valid, %d rejected\n", out.Valid, len(out.Rejected))
			if len(out.Rejected) > 0 {
				rows := make([][]string, 0, len(out.Rejected))
				for _, r := range out.Rejected {
					id := ""
					if r.ID != 0 {
						id = strconv.FormatInt(r.ID, 10)
					}
					rows = append(rows, []string{strconv.Itoa(r.Index), id, r.Reason})
				}
				fmt.Fprintln(w, renderTable([]string{"#", "ID", "Reason"}, rows, []columnAlignment{alignRight, alignRight, alignLeft}, shouldColorize(w)))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Export file to validate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
