package model

import (
	"fmt"
	"time"
)

// ComputedState is the snapshot a client extrapolates from:
// amount(t) = YTDAnchorEUR + RatePerSecondEUR × (t − AnchorTimeISO).
type ComputedState struct {
	YTDAnchorEUR     float64 `json:"ytd_anchor_eur"`
	RatePerSecondEUR float64 `json:"rate_per_second_eur"`
	AnchorTimeISO    string  `json:"anchor_time_iso"`

	Year          int    `json:"year,omitempty"`
	Method        Method `json:"method,omitempty"`
	Anchor        Anchor `json:"anchor,omitempty"`
	SeriesVersion uint64 `json:"series_version,omitempty"`
}

// LiveTick is the simplified meter state: latest amount averaged over the
// seconds elapsed in the current calendar year.
type LiveTick struct {
	YTD       float64 `json:"ytd"`
	AvgRate   float64 `json:"avg_rate"`
	Timestamp string  `json:"timestamp"`
}

// AmountAt extrapolates the meter to t. Before the anchor the amount runs
// backwards along the same rate.
func (s ComputedState) AmountAt(t time.Time) (float64, error) {
	anchor, err := time.Parse(time.RFC3339, s.AnchorTimeISO)
	if err != nil {
		return 0, fmt.Errorf("anchor_time_iso: %w", err)
	}
	return s.YTDAnchorEUR + s.RatePerSecondEUR*t.Sub(anchor).Seconds(), nil
}
