package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cashbook/internal/core"
	"cashbook/internal/export"
	"cashbook/internal/store"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print collection reports",
	}

	cmd.AddCommand(newReportPartiesCommand())
	cmd.AddCommand(newReportBankCommand())

	return cmd
}

// loadRecords fetches entries (optionally filtered to one date) and the
// full party list.
func loadRecords(ctx context.Context, date string) ([]core.Entry, []core.Party, error) {
	if date != "" {
		if _, err := core.ParseDate(date); err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
	}

	s, cleanup, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	f := store.Filter{}
	if date != "" {
		f[store.FieldDate] = date
	}

	entries, err := s.FilterEntries(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching entries: %w", err)
	}
	parties, err := s.ListParties(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching parties: %w", err)
	}
	return entries, parties, nil
}

func newReportPartiesCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "parties",
		Short: "Totals per party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, parties, err := loadRecords(cmd.Context(), date)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PARTY\tTOTAL (Rs.)")
			for _, t := range core.GroupByParty(entries, parties) {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, core.FormatAmount(t.Total))
			}
			fmt.Fprintf(w, "ALL\t%s\n", core.FormatAmount(core.TotalForDate(entries)))
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "limit to one date (YYYY-MM-DD)")

	return cmd
}

func newReportBankCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Bank-format rows with running balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, parties, err := loadRecords(cmd.Context(), date)
			if err != nil {
				return err
			}
			return export.WriteBankReport(os.Stdout, core.BuildBankReport(entries, parties))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "limit to one date (YYYY-MM-DD)")

	return cmd
}
