package graph

import (
	"slices"
	"time"
)

// State is the lifecycle state of a Store.
type State int

const (
	// StateEmpty means no grid has been configured yet.
	StateEmpty State = iota
	// StateReady means a grid is available.
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "empty"
}

// Input is the data a grid is derived from.
// A non-nil External grid is copied verbatim and Dates are ignored.
type Input struct {
	Dates    []time.Time
	External Grid
}

// Store owns the current grid and the config it was derived from.
// Every Configure call rebuilds the grid in full.
// A Store is not safe for concurrent use.
type Store struct {
	state  State
	config Config
	grid   Grid
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Configure derives a new grid from cfg and in, stores it and returns it.
// An invalid config leaves the store unchanged.
func (s *Store) Configure(cfg Config, in Input) (Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var grid Grid
	if in.External != nil {
		grid = slices.Clone(in.External)
	} else {
		grid = Map(cfg, in.Dates)
	}

	s.config = cfg
	s.grid = grid
	s.state = StateReady
	return slices.Clone(grid), nil
}

// State returns the lifecycle state.
func (s *Store) State() State {
	return s.state
}

// Config returns the config of the last successful Configure.
func (s *Store) Config() Config {
	return s.config
}

// Grid returns a copy of the current grid, nil while empty.
func (s *Store) Grid() Grid {
	return slices.Clone(s.grid)
}

// Opacity returns the opacity for cell under the current level spacing.
func (s *Store) Opacity(cell DayCell) float64 {
	return LevelOpacity(cell.Count, s.config.LevelSpacing)
}
