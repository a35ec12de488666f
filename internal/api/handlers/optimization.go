package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/api/models"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/optimize"
	"wwtp-carbon/internal/session"
)

// OptimizationHandler runs what-if scenarios on one month
type OptimizationHandler struct {
	state  *session.State
	engine *carbon.Engine
}

func NewOptimizationHandler(state *session.State, engine *carbon.Engine) *OptimizationHandler {
	return &OptimizationHandler{state: state, engine: engine}
}

// ListMeasures handles GET /api/v1/optimization/measures
func (h *OptimizationHandler) ListMeasures(c *gin.Context) {
	ms := optimize.Measures()
	out := make([]models.MeasureInfo, len(ms))
	for i, m := range ms {
		lo, hi := m.Bounds()
		out[i] = models.MeasureInfo{Name: m.Name(), Zone: m.Zone(), Min: lo, Max: hi}
	}
	c.JSON(http.StatusOK, gin.H{"measures": out})
}

// Simulate handles POST /api/v1/optimization. The levels become the
// session's slider positions.
func (h *OptimizationHandler) Simulate(c *gin.Context) {
	var req models.OptimizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ds, month, err := selectedDataset(h.state, req.Month)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.state.SetLevels(req.AerationPct, req.PACPct); err != nil {
		respondError(c, err)
		return
	}
	res, err := h.engine.Run(ds.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}
	summary := analysis.Summarize(month, res.Table, h.engine.Factors().Display)
	out, err := optimize.Levels(summary, req.AerationPct, req.PACPct)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
