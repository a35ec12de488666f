package carbon

import (
	"wwtp-carbon/internal/model"
)

// Engine runs the direct, indirect and unit calculators over one table
// snapshot. It holds only its factor table and is safe for concurrent use.
type Engine struct {
	factors     EmissionFactors
	calculators []Calculator
}

// New validates and copies the factors. The engine never changes them.
func New(f EmissionFactors) (*Engine, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = f.clone()
	return &Engine{
		factors: f,
		calculators: []Calculator{
			NewDirectCalculator(f),
			NewIndirectCalculator(f),
			NewUnitCalculator(f),
		},
	}, nil
}

// Default returns an engine over DefaultFactors.
func Default() *Engine {
	e, err := New(DefaultFactors())
	if err != nil {
		panic(err)
	}
	return e
}

// Factors returns a copy of the engine's factor table.
func (e *Engine) Factors() EmissionFactors { return e.factors.clone() }

func (e *Engine) Calculators() []Calculator {
	return append([]Calculator(nil), e.calculators...)
}

type Result struct {
	Table *model.Table
	// Issues lists present input cells that were unparsable and read as zero.
	Issues []model.NumericIssue
}

// Run enriches t with every derived field. On error the caller's table is
// unchanged and no partial result is returned.
func (e *Engine) Run(t *model.Table) (*Result, error) {
	if t == nil {
		return nil, &InvalidShapeError{Calculator: "engine", Reason: "table is nil"}
	}
	cur := t
	for _, c := range e.calculators {
		next, err := c.Apply(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return &Result{
		Table:  cur,
		Issues: t.NumericIssues(model.NumericInputFields()...),
	}, nil
}

// Enrich is Run over typed records.
func (e *Engine) Enrich(recs []model.DailyRecord) ([]model.EnrichedRecord, error) {
	res, err := e.Run(model.FromRecords(recs))
	if err != nil {
		return nil, err
	}
	return res.Table.EnrichedRecords(), nil
}
