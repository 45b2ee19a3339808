package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"taxmeter/internal/config"
	"taxmeter/internal/data"
	"taxmeter/internal/estimate"
	"taxmeter/internal/model"
	"taxmeter/internal/normalize"
)

// Demo:
// - Load a receipts table from a local CSV/XLSX file
// - Compute the snapshot for every rate method
// - Show how a client would run the meter forward from the anchor
func main() {
	dataPath := flag.String("data", "data/receipts.csv", "Path to a receipts CSV or XLSX file")
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	n := flag.Int("n", 5, "Number of ticks to simulate per method")
	step := flag.Duration("step", time.Second, "Time between simulated ticks")
	flag.Parse()

	est := model.DefaultEstimationConfig()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		est = cfg.Estimation
	}

	src := data.Source{
		Name:    data.SourceLocal,
		Fetcher: data.LocalFile{Path: *dataPath},
		Format:  normalize.FormatAuto,
	}
	series, err := src.Load(context.Background())
	if err != nil {
		panic(err)
	}
	latest, ok := series.Latest()
	if !ok {
		panic("no records in " + *dataPath)
	}

	fmt.Printf("Loaded %d records, latest %d-%02d = %.2f\n", len(series), latest.Year, latest.Month, latest.NetReceiptsEUR)
	fmt.Printf("Anchor=%s\n\n", est.Anchor)

	asm := estimate.NewAssembler(nil)
	start := asm.Now()
	for _, method := range model.Methods {
		cfg := est
		cfg.Method = method
		state, err := asm.ComputeState(series, latest.Year, cfg)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-11s rate=%12.2f/s  anchor=%s  ytd=%16.2f\n",
			method, state.RatePerSecondEUR, state.AnchorTimeISO, state.YTDAnchorEUR)
		for i := 0; i < *n; i++ {
			t := start.Add(time.Duration(i) * *step)
			amount, err := state.AmountAt(t)
			if err != nil {
				panic(err)
			}
			fmt.Printf("  %s  %18.2f\n", t.UTC().Format("15:04:05"), amount)
		}
	}

	tick := asm.LiveTick(series, model.UnitEUR)
	fmt.Printf("\nlive_tick   ytd=%.2f  avg_rate=%.2f/s\n", tick.YTD, tick.AvgRate)
}
