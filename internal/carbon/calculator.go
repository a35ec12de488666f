package carbon

import "wwtp-carbon/internal/model"

// Calculator is one stage of the accounting pipeline. Apply never mutates its
// argument: it validates, clones and returns the augmented clone.
type Calculator interface {
	Name() string
	Required() []string
	Apply(t *model.Table) (*model.Table, error)
}

// prepare runs the shape and presence checks shared by every calculator and
// returns a fresh clone to write into.
func prepare(c Calculator, t *model.Table) (*model.Table, error) {
	if t == nil {
		return nil, &InvalidShapeError{Calculator: c.Name(), Reason: "table is nil"}
	}
	if err := t.CheckShape(); err != nil {
		return nil, &InvalidShapeError{Calculator: c.Name(), Reason: err.Error()}
	}
	if missing := t.Missing(c.Required()...); len(missing) > 0 {
		return nil, &MissingFieldError{Calculator: c.Name(), Fields: missing}
	}
	return t.Clone(), nil
}

// setColumns writes computed columns in order. Lengths always match the clone
// they came from, so a failure here is a programming error.
func setColumns(t *model.Table, cols []string, vals [][]float64) {
	for i, name := range cols {
		if err := t.SetFloats(name, vals[i]); err != nil {
			panic(err)
		}
	}
}
