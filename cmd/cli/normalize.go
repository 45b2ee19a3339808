package main

import (
	"fmt"
	"os"
	"path/filepath"

	"taxmeter/internal/series"

	"github.com/spf13/cobra"
)

var (
	flagOut  string
	flagXLSX string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Write the canonical (year, month, net_receipts_eur) series",
	Long: "Ingest and normalise the receipts table, then write it as CSV to --out\n" +
		"(stdout when empty) and optionally as an XLSX workbook.",
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output CSV path (default stdout)")
	normalizeCmd.Flags().StringVar(&flagXLSX, "xlsx", "", "Also write an XLSX workbook to this path")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, source, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if flagOut == "" {
		if err := series.WriteCSV(os.Stdout, s); err != nil {
			return err
		}
	} else {
		if err := series.WriteCSVFile(flagOut, s); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Wrote %d records from %s to %s\n", len(s), source, flagOut)
	}

	if flagXLSX != "" {
		raw, err := series.BuildXLSX(s)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(flagXLSX); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(flagXLSX, raw, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  Wrote workbook to %s\n", flagXLSX)
	}
	return nil
}
