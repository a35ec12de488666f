package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wwtp-carbon/internal/api/models"
	"wwtp-carbon/internal/formula"
	"wwtp-carbon/internal/session"
)

// FormulaHandler exposes the session's custom formula calculator
type FormulaHandler struct {
	state *session.State
}

func NewFormulaHandler(state *session.State) *FormulaHandler {
	return &FormulaHandler{state: state}
}

// ListFormulas handles GET /api/v1/formulas
func (h *FormulaHandler) ListFormulas(c *gin.Context) {
	saved := h.state.Formulas().List()
	out := make([]models.FormulaInfo, len(saved))
	for i, s := range saved {
		out[i] = models.FormulaInfo{Name: s.Name, Expression: s.Expression}
	}
	c.JSON(http.StatusOK, models.FormulasResponse{
		Formulas:  out,
		Variables: formula.Variables,
		Functions: formula.Functions(),
	})
}

// SaveFormula handles POST /api/v1/formulas
func (h *FormulaHandler) SaveFormula(c *gin.Context) {
	var req models.FormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.state.Formulas().Save(req.Name, req.Expression); err != nil {
		var ferr *formula.Error
		if errors.As(err, &ferr) {
			respondError(c, err)
			return
		}
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.FormulaInfo{Name: req.Name, Expression: req.Expression})
}

// DeleteFormula handles DELETE /api/v1/formulas/:name
func (h *FormulaHandler) DeleteFormula(c *gin.Context) {
	if !h.state.Formulas().Delete(c.Param("name")) {
		respondError(c, formula.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Evaluate handles POST /api/v1/formulas/:name/evaluate
func (h *FormulaHandler) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	vars := req.Variables
	if vars == nil {
		ds, month, err := selectedDataset(h.state, req.Month)
		if err != nil {
			respondError(c, err)
			return
		}
		vars = formula.VariablesFromTable(ds.Month(month))
	}
	ev, err := h.state.Formulas().Evaluate(c.Param("name"), vars)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Results handles GET /api/v1/formulas/results
func (h *FormulaHandler) Results(c *gin.Context) {
	results := h.state.Formulas().Results()
	if results == nil {
		results = []formula.Evaluation{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
