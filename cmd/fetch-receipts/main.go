package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"taxmeter/internal/analysis"
	"taxmeter/internal/data"
	"taxmeter/internal/normalize"
	"taxmeter/internal/series"
)

func main() {
	var (
		sourceURL  = flag.String("url", "", "Publication URL (default: $RECEIPTS_SOURCE_URL or the data.gov.ie resource)")
		outputPath = flag.String("output", "", "Output CSV path (default: $RECEIPTS_CSV_PATH or ./data/receipts.csv)")
		format     = flag.String("format", "auto", "Publication format: csv, xlsx or auto")
		sheet      = flag.String("sheet", "", "Sheet to read from an XLSX publication")
		timeout    = flag.Duration("timeout", 30*time.Second, "HTTP timeout")
	)
	flag.Parse()

	if *sourceURL == "" {
		*sourceURL = os.Getenv("RECEIPTS_SOURCE_URL")
	}
	if *sourceURL == "" {
		*sourceURL = data.DefaultSourceURL
	}
	if *outputPath == "" {
		*outputPath = os.Getenv("RECEIPTS_CSV_PATH")
	}
	if *outputPath == "" {
		*outputPath = "data/receipts.csv"
	}
	f, err := normalize.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Fetching receipts from %s\n", *sourceURL)

	src := data.Source{
		Name:    data.SourceOfficial,
		Fetcher: data.NewReceiptsClient(*sourceURL, *timeout, nil),
		Format:  f,
		Sheet:   *sheet,
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	s, err := src.Load(ctx)
	if err != nil {
		// Never overwrite a good fallback file with a failed fetch.
		log.Fatalf("Failed to load receipts: %v", err)
	}

	years := analysis.SummarizeYears(s)
	if len(years) > 0 {
		latest := years[0]
		fmt.Printf("Normalised %d records across %d years (latest %d, %d months)\n",
			len(s), len(years), latest.Year, latest.Months)
	}

	if err := series.WriteCSVFile(*outputPath, s); err != nil {
		log.Fatalf("Failed to save receipts: %v", err)
	}

	fmt.Printf("Saved %d records to %s\n", len(s), *outputPath)
}
