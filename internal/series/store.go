// Package series owns the process-wide canonical series.
//
// The series is published as immutable, versioned snapshots behind an atomic
// pointer. Readers take one snapshot per request and compute over it; a
// refresh builds a complete new snapshot and swaps it in, so a reader never
// observes a half-updated series.
package series

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"taxmeter/internal/metrics"
	"taxmeter/internal/model"
)

// loadTimeout bounds one shared refresh load.
const loadTimeout = 2 * time.Minute

// Snapshot is one published version of the canonical series. It must not be
// modified after publication.
type Snapshot struct {
	Version  uint64
	Series   model.Series
	Source   string
	LoadedAt time.Time
}

// Loader produces a fresh canonical series and a label for where it came from.
type Loader func(ctx context.Context) (model.Series, string, error)

// Store holds the current snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	group   singleflight.Group
	now     func() time.Time
}

// NewStore creates a store holding an empty version-0 snapshot.
func NewStore() *Store {
	s := &Store{now: time.Now}
	s.current.Store(&Snapshot{Series: model.Series{}, Source: "empty", LoadedAt: s.now().UTC()})
	return s
}

// Current returns the snapshot in effect. It never returns nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish copies series into a new snapshot and makes it current.
func (s *Store) Publish(series model.Series, source string) (*Snapshot, error) {
	if !series.IsCanonical() {
		return nil, fmt.Errorf("publish %s: series is not sorted by unique period", source)
	}
	snap := &Snapshot{
		Version:  s.version.Add(1),
		Series:   series.Clone(),
		Source:   source,
		LoadedAt: s.now().UTC(),
	}
	if snap.Series == nil {
		snap.Series = model.Series{}
	}
	s.current.Store(snap)
	metrics.SetSeries(snap.Version, len(snap.Series))
	log.Printf("[Store] Published series v%d: %d records from %s", snap.Version, len(snap.Series), source)
	return snap, nil
}

// Refresh runs load and publishes its result. Concurrent calls share one load,
// which is detached from ctx's cancellation and bounded by loadTimeout so one
// departing caller cannot fail it for the others. On error the current
// snapshot is left untouched.
func (s *Store) Refresh(ctx context.Context, load Loader) (*Snapshot, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		series, source, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		return s.Publish(series, source)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}
