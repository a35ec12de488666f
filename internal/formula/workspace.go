package formula

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"wwtp-carbon/internal/model"
)

const (
	DefaultName       = "carbon_per_m3"
	DefaultExpression = "energy * 0.9419 / water_flow"
)

var ErrNotFound = errors.New("formula not found")

// Saved is a named formula as the user entered it.
type Saved struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Evaluation is one calculator run with the variables it saw.
type Evaluation struct {
	Name       string             `json:"name"`
	Expression string             `json:"expression"`
	Result     float64            `json:"result"`
	Variables  map[string]float64 `json:"variables"`
	At         time.Time          `json:"at"`
}

// Workspace holds a user's saved formulas and their latest results. It is
// safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	order    []string
	formulas map[string]*Formula
	results  map[string]Evaluation
	now      func() time.Time
}

// NewWorkspace returns a workspace holding the default formula.
func NewWorkspace() *Workspace {
	w := &Workspace{
		formulas: map[string]*Formula{},
		results:  map[string]Evaluation{},
		now:      time.Now,
	}
	_ = w.Save(DefaultName, DefaultExpression)
	return w
}

// Save validates and stores a formula. Saving an existing name replaces its
// expression and keeps its position.
func (w *Workspace) Save(name, expr string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("formula name is required")
	}
	f, err := Parse(expr)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.formulas[name]; !ok {
		w.order = append(w.order, name)
	}
	w.formulas[name] = f
	return nil
}

func (w *Workspace) Delete(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.formulas[name]; !ok {
		return false
	}
	delete(w.formulas, name)
	delete(w.results, name)
	for i, n := range w.order {
		if n == name {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns saved formulas in the order they were first saved.
func (w *Workspace) List() []Saved {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Saved, 0, len(w.order))
	for _, n := range w.order {
		out = append(out, Saved{Name: n, Expression: w.formulas[n].String()})
	}
	return out
}

// Evaluate runs a saved formula and records the result as its latest.
func (w *Workspace) Evaluate(name string, vars map[string]float64) (Evaluation, error) {
	w.mu.RLock()
	f, ok := w.formulas[name]
	w.mu.RUnlock()
	if !ok {
		return Evaluation{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	v, err := f.Eval(vars)
	if err != nil {
		return Evaluation{}, err
	}
	ev := Evaluation{
		Name:       name,
		Expression: f.String(),
		Result:     v,
		Variables:  maps.Clone(vars),
		At:         w.now(),
	}
	w.mu.Lock()
	w.results[name] = ev
	w.mu.Unlock()
	return ev, nil
}

// Results returns the latest evaluation of each formula, in formula order.
func (w *Workspace) Results() []Evaluation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Evaluation
	for _, n := range w.order {
		if ev, ok := w.results[n]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// VariablesFromTable binds the calculator variables from a month of daily
// records: volumes, energy and dosing are summed, concentrations averaged.
func VariablesFromTable(t *model.Table) map[string]float64 {
	vars := make(map[string]float64, len(Variables))
	for _, v := range Variables {
		vars[v] = 0
	}
	n := t.Len()
	if n == 0 {
		return vars
	}
	vars["water_flow"] = t.Sum(model.FieldVolume)
	vars["energy"] = t.Sum(model.FieldElectricity)
	vars["pac"] = t.Sum(model.FieldPAC)
	vars["pam"] = t.Sum(model.FieldPAM)
	vars["naclo"] = t.Sum(model.FieldNaClO)
	vars["chemicals"] = vars["pac"] + vars["pam"] + vars["naclo"]
	vars["tn_in"] = t.Sum(model.FieldTNIn) / float64(n)
	vars["tn_out"] = t.Sum(model.FieldTNOut) / float64(n)
	vars["cod_in"] = t.Sum(model.FieldCODIn) / float64(n)
	vars["cod_out"] = t.Sum(model.FieldCODOut) / float64(n)
	return vars
}
