package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wwtp-carbon/internal/api/models"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/session"
)

// DatasetHandler handles workbook uploads and month selection
type DatasetHandler struct {
	state  *session.State
	loader *ingest.Loader
}

func NewDatasetHandler(state *session.State, opts ingest.Options, log zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{state: state, loader: ingest.NewLoader(opts, log)}
}

// Upload handles POST /api/v1/datasets (multipart field "file")
func (h *DatasetHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()

	ds, err := h.loader.LoadReader(fh.Filename, f)
	if err != nil {
		if isDomainError(err) {
			respondError(c, err)
			return
		}
		abort(c, http.StatusBadRequest, "INVALID_DATASET", err.Error(), map[string]any{"file": fh.Filename})
		return
	}
	h.state.SetDataset(ds)

	start, end := ds.Span()
	_, selected := h.state.Dataset()
	c.JSON(http.StatusCreated, models.DatasetResponse{
		Rows:     ds.Table.Len(),
		Months:   ds.Months,
		Selected: selected,
		Start:    start,
		End:      end,
		Warnings: ds.Warnings,
	})
}

// ListMonths handles GET /api/v1/months
func (h *DatasetHandler) ListMonths(c *gin.Context) {
	ds, selected := h.state.Dataset()
	months := []string{}
	if ds != nil {
		months = ds.Months
	}
	c.JSON(http.StatusOK, models.MonthsResponse{Months: months, Selected: selected})
}

// SelectMonth handles PUT /api/v1/months/selected
func (h *DatasetHandler) SelectMonth(c *gin.Context) {
	var req models.SelectMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.state.SelectMonth(req.Month); err != nil {
		respondError(c, err)
		return
	}
	ds, selected := h.state.Dataset()
	c.JSON(http.StatusOK, models.MonthsResponse{Months: ds.Months, Selected: selected})
}
