package models

// AccountingRequest runs the monthly report. Zero values fall back to the
// session: the selected month and the stored slider levels.
type AccountingRequest struct {
	Month         string   `json:"month,omitempty"`
	AerationPct   *float64 `json:"aeration_pct,omitempty"`
	PACPct        *float64 `json:"pac_pct,omitempty"`
	IncludeLedger bool     `json:"include_ledger,omitempty"`
}

type SelectMonthRequest struct {
	Month string `json:"month" binding:"required"`
}

type FormulaRequest struct {
	Name       string `json:"name" binding:"required,max=128"`
	Expression string `json:"expression" binding:"required,max=4096"`
}

// EvaluateRequest binds formula variables. Without Variables the selected
// (or given) month of the session dataset is used.
type EvaluateRequest struct {
	Month     string             `json:"month,omitempty"`
	Variables map[string]float64 `json:"variables,omitempty"`
}

type OptimizationRequest struct {
	Month       string  `json:"month,omitempty"`
	AerationPct float64 `json:"aeration_pct"`
	PACPct      float64 `json:"pac_pct"`
}
