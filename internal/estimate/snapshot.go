package estimate

import (
	"fmt"
	"time"

	"taxmeter/internal/model"
)

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Assembler composes the rate estimator and anchor resolver into the
// response contract.
type Assembler struct {
	clock Clock
}

// NewAssembler builds an Assembler. A nil clock means SystemClock.
func NewAssembler(clock Clock) *Assembler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Assembler{clock: clock}
}

// ComputeState builds the full policy-driven snapshot for year.
func (a *Assembler) ComputeState(series model.Series, year int, cfg model.EstimationConfig) (model.ComputedState, error) {
	cfg, err := cfg.Normalized()
	if err != nil {
		return model.ComputedState{}, err
	}
	rate, err := RatePerSecond(series, year, cfg.Method)
	if err != nil {
		return model.ComputedState{}, fmt.Errorf("rate: %w", err)
	}
	amount, at, err := ResolveAnchor(series, year, cfg.Anchor, a.clock.Now())
	if err != nil {
		return model.ComputedState{}, fmt.Errorf("anchor: %w", err)
	}
	return model.ComputedState{
		YTDAnchorEUR:     amount,
		RatePerSecondEUR: rate,
		AnchorTimeISO:    FormatInstant(at),
		Year:             year,
		Method:           cfg.Method,
		Anchor:           cfg.Anchor,
	}, nil
}

// LiveTick builds the simplified meter state at the clock's current time.
func (a *Assembler) LiveTick(series model.Series, unit model.Unit) model.LiveTick {
	return LiveTick(series, unit, a.clock.Now())
}

// Now exposes the assembler's clock to request handlers.
func (a *Assembler) Now() time.Time {
	return a.clock.Now()
}

// FormatInstant renders t as an RFC 3339 UTC timestamp.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
