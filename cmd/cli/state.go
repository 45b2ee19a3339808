package main

import (
	"fmt"
	"time"

	"taxmeter/internal/estimate"
	"taxmeter/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagYear   string
	flagMethod string
	flagAnchor string
	flagUnit   string
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Compute the anchor/rate snapshot for a year",
	RunE:  runState,
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Compute the simplified live tick (latest amount over elapsed seconds)",
	RunE:  runLive,
}

func init() {
	stateCmd.Flags().StringVarP(&flagYear, "year", "y", "", "Year to estimate (default: latest in the data)")
	stateCmd.Flags().StringVarP(&flagMethod, "method", "m", "", "Rate method: monthly, rolling_3m or annualized")
	stateCmd.Flags().StringVarP(&flagAnchor, "anchor", "a", "", "Anchor policy: server_start or month_end")
	liveCmd.Flags().StringVarP(&flagUnit, "unit", "u", "", "Unit of the stored amounts: eur, thousand_eur or million_eur")

	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(liveCmd)
}

func runState(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	est := cfg.Estimation
	if flagMethod != "" {
		est.Method = model.Method(flagMethod)
	}
	if flagAnchor != "" {
		est.Anchor = model.Anchor(flagAnchor)
	}
	// Reject a bad policy before touching the network.
	if err := est.Validate(); err != nil {
		return err
	}

	series, source, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	asm := estimate.NewAssembler(nil)
	year, err := estimate.ResolveYear(flagYear, series, asm.Now())
	if err != nil {
		return err
	}
	state, err := asm.ComputeState(series, year, est)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(state)
	}
	fmt.Printf("\n  Year %d  (%s, %s)  from %s\n\n", state.Year, state.Method, state.Anchor, source)
	fmt.Printf("  YTD at anchor   %s\n", formatEUR(state.YTDAnchorEUR))
	fmt.Printf("  Anchor time     %s\n", state.AnchorTimeISO)
	fmt.Printf("  Rate            %s/s  (%s/day)\n",
		formatEUR(state.RatePerSecondEUR), formatEUR(state.RatePerSecondEUR*86400))
	fmt.Println()
	return nil
}

func runLive(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	unit := cfg.Unit()
	if flagUnit != "" {
		if unit, err = model.ParseUnit(flagUnit); err != nil {
			return err
		}
	}

	series, _, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	tick := estimate.LiveTick(series, unit, time.Now())

	if flagJSON {
		return printJSON(tick)
	}
	fmt.Printf("\n  YTD         %s\n", formatEUR(tick.YTD))
	fmt.Printf("  Avg rate    %s/s\n", formatEUR(tick.AvgRate))
	fmt.Printf("  At          %s\n\n", tick.Timestamp)
	return nil
}
