package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"wwtp-carbon/internal/api/models"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/formula"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/session"
)

func abort(c *gin.Context, status int, code, msg string, details map[string]any) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
			Details: details,
		},
	})
}

func badRequest(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondError maps a domain error onto a status code and error code.
func respondError(c *gin.Context, err error) {
	var (
		missing *carbon.MissingFieldError
		shape   *carbon.InvalidShapeError
		ferr    *formula.Error
	)
	switch {
	case errors.As(err, &missing):
		abort(c, http.StatusUnprocessableEntity, "MISSING_FIELDS", err.Error(), map[string]any{
			"calculator": missing.Calculator,
			"fields":     missing.Fields,
		})
	case errors.As(err, &shape):
		abort(c, http.StatusBadRequest, "INVALID_SHAPE", err.Error(), map[string]any{
			"calculator": shape.Calculator,
		})
	case errors.As(err, &ferr):
		details := map[string]any{"kind": ferr.Kind.Error()}
		if ferr.Pos >= 0 {
			details["position"] = ferr.Pos
		}
		abort(c, http.StatusUnprocessableEntity, "FORMULA_ERROR", err.Error(), details)
	case errors.Is(err, session.ErrNoDataset):
		abort(c, http.StatusConflict, "NO_DATASET", "upload a dataset first", nil)
	case errors.Is(err, session.ErrUnknownMonth):
		abort(c, http.StatusNotFound, "UNKNOWN_MONTH", err.Error(), nil)
	case errors.Is(err, session.ErrUnknownUnit):
		abort(c, http.StatusNotFound, "UNKNOWN_UNIT", err.Error(), nil)
	case errors.Is(err, formula.ErrNotFound):
		abort(c, http.StatusNotFound, "UNKNOWN_FORMULA", err.Error(), nil)
	case errors.Is(err, session.ErrOutOfRange):
		abort(c, http.StatusBadRequest, "OUT_OF_RANGE", err.Error(), nil)
	default:
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}

// selectedDataset returns the session dataset and the month to report on,
// preferring an explicit month.
func selectedDataset(state *session.State, month string) (*ingest.Dataset, string, error) {
	ds, selected := state.Dataset()
	if ds == nil {
		return nil, "", session.ErrNoDataset
	}
	if month == "" {
		month = selected
	}
	if !ds.HasMonth(month) {
		return nil, "", fmt.Errorf("%w: %q", session.ErrUnknownMonth, month)
	}
	return ds, month, nil
}

// isDomainError reports whether err carries a typed engine error that
// respondError maps to a specific status.
func isDomainError(err error) bool {
	var (
		missing *carbon.MissingFieldError
		shape   *carbon.InvalidShapeError
	)
	return errors.As(err, &missing) || errors.As(err, &shape)
}
