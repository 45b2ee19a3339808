package handlers

import (
	"net/http"

	"taxmeter/internal/api/models"
	"taxmeter/internal/estimate"
	"taxmeter/internal/metrics"
	"taxmeter/internal/model"
	"taxmeter/internal/series"

	"github.com/gin-gonic/gin"
)

// StateHandler serves the meter snapshots.
type StateHandler struct {
	store    *series.Store
	asm      *estimate.Assembler
	defaults model.EstimationConfig
	unit     model.Unit
}

// NewStateHandler creates a new state handler. defaults must already be valid.
func NewStateHandler(store *series.Store, asm *estimate.Assembler, defaults model.EstimationConfig, unit model.Unit) *StateHandler {
	return &StateHandler{store: store, asm: asm, defaults: defaults, unit: unit}
}

// GetState handles GET /api/v1/state
func (h *StateHandler) GetState(c *gin.Context) {
	var req models.StateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	cfg := h.defaults
	if req.Method != "" {
		cfg.Method = model.Method(req.Method)
	}
	if req.Anchor != "" {
		cfg.Anchor = model.Anchor(req.Anchor)
	}

	// One snapshot per request: rate and anchor see the same series.
	snap := h.store.Current()
	year, err := estimate.ResolveYear(req.Year, snap.Series, h.asm.Now())
	if err != nil {
		metrics.IncCompute("state", metrics.ResultError)
		respondError(c, err)
		return
	}

	state, err := h.asm.ComputeState(snap.Series, year, cfg)
	if err != nil {
		metrics.IncCompute("state", metrics.ResultError)
		respondError(c, err)
		return
	}
	state.SeriesVersion = snap.Version
	metrics.IncCompute("state", metrics.ResultSuccess)
	c.JSON(http.StatusOK, state)
}

// GetLiveTick handles GET /api/state and GET /api/v1/live
func (h *StateHandler) GetLiveTick(c *gin.Context) {
	snap := h.store.Current()
	metrics.IncCompute("live_tick", metrics.ResultSuccess)
	c.JSON(http.StatusOK, h.asm.LiveTick(snap.Series, h.unit))
}

// ListPolicies handles GET /api/v1/policies
func (h *StateHandler) ListPolicies(c *gin.Context) {
	info := models.PolicyInfo{
		Default: models.Policy{
			Method:   string(h.defaults.Method),
			Anchor:   string(h.defaults.Anchor),
			Timezone: h.defaults.Timezone,
		},
		LiveUnit: string(h.unit),
	}
	for _, m := range model.Methods {
		info.Methods = append(info.Methods, string(m))
	}
	for _, a := range model.Anchors {
		info.Anchors = append(info.Anchors, string(a))
	}
	c.JSON(http.StatusOK, info)
}
