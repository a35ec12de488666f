package models

import (
	"time"

	"wwtp-carbon/internal/model"
	"wwtp-carbon/internal/pipeline"
)

type DatasetResponse struct {
	Rows     int       `json:"rows"`
	Months   []string  `json:"months"`
	Selected string    `json:"selected_month"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Warnings []string  `json:"warnings,omitempty"`
}

type MonthsResponse struct {
	Months   []string `json:"months"`
	Selected string   `json:"selected_month"`
}

// AccountingResponse wraps a generated report with the id it is cached under.
type AccountingResponse struct {
	ID     string           `json:"id"`
	Report *pipeline.Report `json:"report"`
}

type RecordsResponse struct {
	Columns []string             `json:"columns"`
	Rows    []map[string]any     `json:"rows"`
	Issues  []model.NumericIssue `json:"issues,omitempty"`
}

type FormulaInfo struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

type FormulasResponse struct {
	Formulas  []FormulaInfo `json:"formulas"`
	Variables []string      `json:"variables"`
	Functions []string      `json:"functions"`
}

type MeasureInfo struct {
	Name string  `json:"name"`
	Zone string  `json:"zone"`
	Min  float64 `json:"min_pct"`
	Max  float64 `json:"max_pct"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
