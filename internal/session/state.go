package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"wwtp-carbon/internal/formula"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/optimize"
)

var (
	ErrNoDataset    = errors.New("no dataset loaded")
	ErrUnknownMonth = errors.New("month not in dataset")
	ErrUnknownUnit  = errors.New("process unit not found")
	ErrOutOfRange   = errors.New("level out of range")
)

// State is everything one dashboard session holds between requests: the
// uploaded dataset, the selected month, slider positions, the process-unit
// table and the formula workspace. The accounting engine never sees it.
type State struct {
	mu sync.RWMutex

	dataset  *ingest.Dataset
	month    string
	aeration float64
	pac      float64
	units    []ProcessUnit

	formulas *formula.Workspace
}

func NewState() *State {
	return &State{
		units:    DefaultUnits(),
		formulas: formula.NewWorkspace(),
	}
}

// SetDataset replaces the dataset and selects its latest month.
func (s *State) SetDataset(ds *ingest.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.month = ds.LatestMonth()
}

// Dataset returns the current dataset and selected month. The dataset is nil
// until one is uploaded.
func (s *State) Dataset() (*ingest.Dataset, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset, s.month
}

func (s *State) SelectMonth(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return ErrNoDataset
	}
	if !s.dataset.HasMonth(key) {
		return fmt.Errorf("%w: %q", ErrUnknownMonth, key)
	}
	s.month = key
	return nil
}

// SetLevels stores the optimization slider positions after a bounds check.
func (s *State) SetLevels(aerationPct, pacPct float64) error {
	for _, c := range []struct {
		m optimize.Measure
		v float64
	}{{optimize.AerationMeasure{}, aerationPct}, {optimize.DosingMeasure{}, pacPct}} {
		lo, hi := c.m.Bounds()
		if c.v < lo || c.v > hi {
			return fmt.Errorf("%w: %s must be within [%v, %v]", ErrOutOfRange, c.m.Name(), lo, hi)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aeration, s.pac = aerationPct, pacPct
	return nil
}

func (s *State) Levels() (aerationPct, pacPct float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aeration, s.pac
}

func (s *State) Units() []ProcessUnit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.units)
}

// UpdateUnit patches one unit by name.
func (s *State) UpdateUnit(name string, p UnitPatch) (ProcessUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.units {
		if u.Name == name {
			s.units[i] = p.apply(u)
			return s.units[i], nil
		}
	}
	return ProcessUnit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

func (s *State) Formulas() *formula.Workspace { return s.formulas }
