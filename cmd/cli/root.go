package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"taxmeter/internal/config"
	"taxmeter/internal/data"
	"taxmeter/internal/model"
	"taxmeter/internal/normalize"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagInput   string
	flagSheet   string
	flagOffline bool
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "taxmeter",
	Short: "Irish tax receipts meter",
	Long: "Normalise the monthly Exchequer tax receipts publication and compute\n" +
		"the anchor/rate snapshots the live meter extrapolates from.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", os.Getenv("CONFIG_PATH"), "Path to YAML config")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "Read this CSV/XLSX file instead of the configured sources")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "Sheet to read from an XLSX input")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Skip the official source and read the local CSV only")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of text")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagOffline {
		cfg.Data.Offline = true
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadSeries is the shared data loading path used by all commands.
func loadSeries(ctx context.Context, cfg *config.Config) (model.Series, string, error) {
	if flagInput != "" {
		src := data.Source{
			Name:    flagInput,
			Fetcher: data.LocalFile{Path: flagInput},
			Format:  normalize.FormatAuto,
			Sheet:   flagSheet,
		}
		s, err := src.Load(ctx)
		return s, flagInput, err
	}

	s, source, err := cfg.Ingester().Load(ctx)
	if err != nil {
		var schemaErr *model.SchemaError
		if !errors.As(err, &schemaErr) {
			return nil, source, err
		}
		fmt.Fprintf(os.Stderr, "  warning: %v\n", err)
		return model.Series{}, source, nil
	}
	return s, source, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
