package models

import (
	"time"

	"taxmeter/internal/analysis"
)

// SnapshotInfo describes the published canonical series.
type SnapshotInfo struct {
	Version  uint64    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
	Years    []int     `json:"years"`
}

// YearsResponse lists per-year summaries, newest first.
type YearsResponse struct {
	Years         []analysis.YearSummary `json:"years"`
	Count         int                    `json:"count"`
	SeriesVersion uint64                 `json:"series_version"`
}

// PolicyInfo lists the supported estimation policies and the configured default.
type PolicyInfo struct {
	Methods  []string `json:"methods"`
	Anchors  []string `json:"anchors"`
	Default  Policy   `json:"default"`
	LiveUnit string   `json:"live_tick_unit"`
}

// Policy is one method/anchor pairing.
type Policy struct {
	Method   string `json:"method"`
	Anchor   string `json:"anchor"`
	Timezone string `json:"timezone"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
