package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cppla/fotos/models"
	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/scheduler"
	"github.com/cppla/fotos/store"
	"github.com/cppla/fotos/transfer"
)

func newCheckCommand(cc *commandContext) *cobra.Command {
	var in, today, out string
	var write bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the exhibition expiry check against an export file",
		Long: "Runs the same check the server runs every second: exhibitions whose end date\n" +
			"has passed and that were not notified yet are reported and flagged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cc.configValue()
			loc := cfg.Location()

			now := time.Now()
			if today != "" {
				d, err := models.ParseDate(today)
				if err != nil {
					return fmt.Errorf("--today: %w", err)
				}
				now = d.Midnight(loc)
			}

			res, err := readExport(in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if n := len(res.Rejected); n > 0 {
				fmt.Fprintf(w, "%d record(s) rejected, run validate for details\n", n)
				// rewriting --in would drop the rejected records from it
				if write && (out == "" || filepath.Clean(out) == filepath.Clean(in)) {
					return fmt.Errorf("--write would remove %d rejected record(s) from %s, use --out", n, in)
				}
			}

			photos := store.New()
			photos.ReplaceAll(res.Photos)

			printer := notify.NotifierFunc(func(_ context.Context, n notify.Notification) error {
				_, err := fmt.Fprintln(w, n.Message)
				return err
			})
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			expired := scheduler.New(photos, printer, scheduler.WithLocation(loc)).CheckAt(ctx, now)
			if len(expired) == 0 {
				fmt.Fprintln(w, "no exhibition ended")
				return nil
			}
			if !write {
				return nil
			}

			target := out
			if target == "" {
				target = in
			}
			var buf bytes.Buffer
			if err := transfer.Export(&buf, photos.List(), time.Now()); err != nil {
				return err
			}
			if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(w, "%d exhibition(s) flagged, written to %s\n", len(expired), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Export file to check")
	cmd.Flags().StringVar(&today, "today", "", "Check as of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&write, "write", false, "Save the notified flags back")
	cmd.Flags().StringVar(&out, "out", "", "Write to this file instead of --in")
	return cmd
}
