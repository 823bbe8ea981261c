package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cashbook/internal/core"
	"cashbook/internal/export"
)

func newExportCommand() *cobra.Command {
	var (
		date string
		out  string
	)

	cmd := &cobra.Command{
		Use:       "export {self|bank}",
		Short:     "Write a CSV export",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"self", "bank"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != "self" && format != "bank" {
				return fmt.Errorf("unknown format %q: expected self or bank", format)
			}

			entries, parties, err := loadRecords(cmd.Context(), date)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			dest := out
			if dest == "" && date != "" {
				dest = export.FileName(core.Date(date))
			}
			if dest != "" && dest != "-" {
				f, err := os.Create(dest)
				if err != nil {
					return fmt.Errorf("creating %s: %w", dest, err)
				}
				defer f.Close()
				w = f
			}

			if format == "self" {
				err = export.WriteSelfReport(w, core.BuildSelfReport(entries, parties))
			} else {
				err = export.WriteBankReport(w, core.BuildBankReport(entries, parties))
			}
			if err != nil {
				return err
			}

			if dest != "" && dest != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", dest)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "limit to one date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout, or Cash_Collections_<date>.csv with --date)")

	return cmd
}
