package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"taxmeter/internal/analysis"
	"taxmeter/internal/api/models"
	"taxmeter/internal/estimate"
	"taxmeter/internal/series"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DataHandler exposes the canonical series itself.
type DataHandler struct {
	store *series.Store
	load  series.Loader
}

// NewDataHandler creates a new data handler. load is used by Refresh; it may
// be nil, in which case refreshing is not available.
func NewDataHandler(store *series.Store, load series.Loader) *DataHandler {
	return &DataHandler{store: store, load: load}
}

// ListRecords handles GET /data
func (h *DataHandler) ListRecords(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	snap := h.store.Current()
	records := snap.Series
	if req.Year != "" {
		year, err := estimate.ResolveYear(req.Year, records, snap.LoadedAt)
		if err != nil {
			respondError(c, err)
			return
		}
		records = records.ForYear(year)
	}

	switch req.Format {
	case "", "json":
		c.JSON(http.StatusOK, records)
	case "csv":
		var buf bytes.Buffer
		if err := series.WriteCSV(&buf, records); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="receipts.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		raw, err := series.BuildXLSX(records)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="receipts.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, raw)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_FORMAT",
				Message: fmt.Sprintf("unsupported format %q (want json, csv or xlsx)", req.Format),
			},
		})
	}
}

// ListYears handles GET /api/v1/years
func (h *DataHandler) ListYears(c *gin.Context) {
	snap := h.store.Current()
	years := analysis.SummarizeYears(snap.Series)
	c.JSON(http.StatusOK, models.YearsResponse{
		Years:         years,
		Count:         len(years),
		SeriesVersion: snap.Version,
	})
}

// GetSnapshot handles GET /api/v1/snapshot
func (h *DataHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, snapshotInfo(h.store.Current()))
}

// Refresh handles POST /api/v1/refresh
func (h *DataHandler) Refresh(c *gin.Context) {
	if h.load == nil {
		c.JSON(http.StatusNotImplemented, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_IMPLEMENTED",
				Message: "refresh is not configured",
			},
		})
		return
	}
	snap, err := h.store.Refresh(c.Request.Context(), h.load)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotInfo(snap))
}

func snapshotInfo(snap *series.Snapshot) models.SnapshotInfo {
	years := snap.Series.Years()
	if years == nil {
		years = []int{}
	}
	return models.SnapshotInfo{
		Version:  snap.Version,
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Records:  len(snap.Series),
		Years:    years,
	}
}
