package models

// StateRequest is the query of GET /api/v1/state. Empty method/anchor fall
// back to the configured policy; an empty year selects the latest year.
type StateRequest struct {
	Year   string `form:"year"`
	Method string `form:"method"`
	Anchor string `form:"anchor"`
}

// ExportRequest is the query of GET /data.
type ExportRequest struct {
	Year   string `form:"year"`
	Format string `form:"format"` // "json" (default), "csv" or "xlsx"
}
