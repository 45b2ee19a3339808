package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"taxmeter/internal/analysis"

	"github.com/spf13/cobra"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Per-year summary of the canonical series",
	RunE:  runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, _, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	years := analysis.SummarizeYears(s)

	if flagJSON {
		return printJSON(years)
	}
	if len(years) == 0 {
		fmt.Println("\n  No receipts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Year\tMonths\tLatest\tTotal\tMean/month\t")
	for _, y := range years {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t\n",
			y.Year, y.Months, y.LatestMonth, formatEUR(y.Total), formatEUR(y.Mean))
	}
	return w.Flush()
}
