package commands

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cppla/fotos/pdfexport"
	"github.com/cppla/fotos/utils"
)

func newPDFCommand(cc *commandContext) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render the exhibition list of an export file as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := readExport(in)
			if err != nil {
				return err
			}
			now := time.Now()
			if out == "" {
				out = pdfexport.FileName(now)
			}
			// render fully before touching the output file
			var buf bytes.Buffer
			if err := pdfexport.NewRenderer(utils.Logger).Render(&buf, res.Photos, now); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Export file to read")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PDF file to write (default exposicao-YYYY-MM-DD.pdf)")
	return cmd
}
