package data

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"taxmeter/internal/metrics"
	"taxmeter/internal/model"
	"taxmeter/internal/normalize"
)

// Fetcher supplies raw tabular bytes or a failure.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Source is one place raw receipts can come from.
type Source struct {
	Name    string
	Fetcher Fetcher
	Format  normalize.Format
	Sheet   string
}

// Load fetches and normalises one source. A *model.SchemaError is returned
// together with whatever (possibly empty) series survived.
func (s Source) Load(ctx context.Context) (model.Series, error) {
	start := time.Now()
	raw, err := s.Fetcher.Fetch(ctx)
	if err != nil {
		metrics.ObserveIngest(s.Name, metrics.ResultError, time.Since(start))
		return nil, err
	}
	series, err := normalize.NormalizeBytes(raw, s.Format, s.Sheet)
	if err != nil {
		metrics.ObserveIngest(s.Name, metrics.ResultError, time.Since(start))
		return series, fmt.Errorf("%s: %w", s.Name, err)
	}
	metrics.ObserveIngest(s.Name, metrics.ResultSuccess, time.Since(start))
	return series, nil
}

// Ingester loads the official publication and falls back to a local copy.
type Ingester struct {
	Official Source
	Fallback *Source
	// Cache is the official client's response cache, if any.
	Cache *ResponseCache
}

// Load returns the canonical series and the name of the source it came from.
//
// When both sources fail, the error joins both failures. If either failure
// was a *model.SchemaError the best empty series is returned with it so
// callers may still choose to publish it.
func (i *Ingester) Load(ctx context.Context) (model.Series, string, error) {
	series, err := i.Official.Load(ctx)
	if err == nil {
		log.Printf("[Ingest] Loaded %d records from %s", len(series), i.Official.Name)
		return series, i.Official.Name, nil
	}
	log.Printf("[Ingest] Couldn't load %s: %v", i.Official.Name, err)

	if i.Fallback == nil {
		return series, i.Official.Name, err
	}

	fbSeries, fbErr := i.Fallback.Load(ctx)
	if fbErr == nil {
		log.Printf("[Ingest] Loaded %d records from fallback %s", len(fbSeries), i.Fallback.Name)
		return fbSeries, i.Fallback.Name, nil
	}
	log.Printf("[Ingest] Fallback %s failed: %v", i.Fallback.Name, fbErr)

	var schemaErr *model.SchemaError
	if errors.As(fbErr, &schemaErr) {
		return fbSeries, i.Fallback.Name, errors.Join(err, fbErr)
	}
	return series, i.Official.Name, errors.Join(err, fbErr)
}

// Reload is Load with the response cache dropped first, for explicit
// operator-triggered refreshes.
func (i *Ingester) Reload(ctx context.Context) (model.Series, string, error) {
	i.Cache.Clear()
	return i.Load(ctx)
}
