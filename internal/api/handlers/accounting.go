package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/api/models"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/pipeline"
	"wwtp-carbon/internal/report"
	"wwtp-carbon/internal/session"
)

// AccountingHandler runs the carbon engine over the session dataset and keeps
// generated reports for later retrieval.
type AccountingHandler struct {
	state   *session.State
	engine  *carbon.Engine
	reports *session.Cache[*pipeline.Report]
	anomaly analysis.AnomalyConfig
}

func NewAccountingHandler(state *session.State, engine *carbon.Engine, reports *session.Cache[*pipeline.Report], anomaly analysis.AnomalyConfig) *AccountingHandler {
	return &AccountingHandler{state: state, engine: engine, reports: reports, anomaly: anomaly}
}

// Run handles POST /api/v1/accounting
func (h *AccountingHandler) Run(c *gin.Context) {
	var req models.AccountingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	ds, month, err := selectedDataset(h.state, req.Month)
	if err != nil {
		respondError(c, err)
		return
	}

	aer, pac := h.state.Levels()
	if req.AerationPct != nil {
		aer = *req.AerationPct
	}
	if req.PACPct != nil {
		pac = *req.PACPct
	}
	if err := h.state.SetLevels(aer, pac); err != nil {
		respondError(c, err)
		return
	}

	rep, err := pipeline.Run(c.Request.Context(), h.engine, ds, pipeline.Options{
		Month:       month,
		AerationPct: aer,
		PACPct:      pac,
		Anomaly:     h.anomaly,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	id := h.reports.Put(rep)

	out := *rep
	if !req.IncludeLedger {
		out.Records = nil
	}
	c.JSON(http.StatusOK, models.AccountingResponse{ID: id, Report: &out})
}

// EnrichRecords handles POST /api/v1/accounting/records. The body is a JSON
// array of row objects, or an object with a "rows" array; the response carries
// every input column plus the derived ones.
func (h *AccountingHandler) EnrichRecords(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		badRequest(c, err)
		return
	}
	if obj, ok := v.(map[string]any); ok {
		v = obj["rows"]
	}
	t, err := carbon.FromRows(v)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.engine.Run(t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RecordsResponse{
		Columns: res.Table.Columns(),
		Rows:    res.Table.Rows(),
		Issues:  res.Issues,
	})
}

// GetReport handles GET /api/v1/reports/:id
func (h *AccountingHandler) GetReport(c *gin.Context) {
	rep, ok := h.reports.Get(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "REPORT_NOT_FOUND", "report not found or expired", nil)
		return
	}
	c.JSON(http.StatusOK, models.AccountingResponse{ID: c.Param("id"), Report: rep})
}

// GetLedger handles GET /api/v1/reports/:id/ledger (?format=csv|json)
func (h *AccountingHandler) GetLedger(c *gin.Context) {
	rep, ok := h.reports.Get(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "REPORT_NOT_FOUND", "report not found or expired", nil)
		return
	}
	switch c.DefaultQuery("format", "csv") {
	case "json":
		c.JSON(http.StatusOK, gin.H{"month": rep.Month, "records": rep.Records})
	case "csv":
		var buf bytes.Buffer
		if err := report.WriteLedger(&buf, rep.Records); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="ledger-`+rep.Month+`.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		abort(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or json", nil)
	}
}
