package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/geometry"
)

// tomlMatrix is the on-disk shape of a geometry.Mat: row-major flattened
// data plus its declared dimensions, mirroring tunaq's jsonRoute/toRoute
// split between wire representation and domain type.
type tomlMatrix struct {
	Rows int       `toml:"rows"`
	Cols int       `toml:"cols"`
	Data []float64 `toml:"data"`
}

func (m tomlMatrix) toMat() (geometry.Mat, error) {
	if len(m.Data) != m.Rows*m.Cols {
		return geometry.Mat{}, fmt.Errorf("matrix %dx%d wants %d entries, got %d: %w", m.Rows, m.Cols, m.Rows*m.Cols, len(m.Data), ErrBadMatrixShape)
	}
	return geometry.NewMat(m.Rows, m.Cols, m.Data)
}

// tomlBox is the on-disk shape of a geometry.Box.
type tomlBox struct {
	Lo []float64 `toml:"lo"`
	Hi []float64 `toml:"hi"`
}

func (b tomlBox) toBox() (geometry.Box, error) {
	if len(b.Lo) != len(b.Hi) {
		return geometry.Box{}, fmt.Errorf("box lo has %d dims, hi has %d: %w", len(b.Lo), len(b.Hi), ErrBadVectorLength)
	}
	return geometry.NewBox(b.Lo, b.Hi)
}

// tomlPredicate names a predicate and the region of the state space over
// which it holds. A grid cell is tagged with name whenever the cell's
// polytope lies entirely within region, i.e. the predicate is satisfied
// by every point in the cell, not merely some of them.
type tomlPredicate struct {
	Name   string    `toml:"name"`
	Region []tomlBox `toml:"region"`
}

func (p tomlPredicate) toGridOption() (abstraction.GridOption, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("predicate: %w: name", ErrMissingField)
	}
	region := make(geometry.Region, 0, len(p.Region))
	for _, tb := range p.Region {
		b, err := tb.toBox()
		if err != nil {
			return nil, fmt.Errorf("predicate %q region: %w", p.Name, err)
		}
		region = append(region, b)
	}
	return abstraction.WithPredicate(p.Name, func(cell geometry.Box) bool {
		return region.Covers(geometry.Region{cell})
	}), nil
}

// tomlGrid configures the initial uniform abstraction grid.
type tomlGrid struct {
	Counts        []int           `toml:"counts"`
	ControlSplits int             `toml:"control_splits"`
	Predicates    []tomlPredicate `toml:"predicates"`
}

// tomlRefinement bounds an abstraction-refinement run.
type tomlRefinement struct {
	MaxIterations        int     `toml:"max_iterations"`
	MaybeVolumeThreshold float64 `toml:"maybe_volume_threshold"`
}

// tomlController names the controller to synthesize and the automaton
// transition it should track, for controllers (PreRLayeredTransition) that
// need one.
type tomlController struct {
	Name      string `toml:"name"`
	FromState string `toml:"from_state"`
	ToState   string `toml:"to_state"`
}

// tomlScenario is the root document shape, decoded directly by
// toml.Decode before conversion to Scenario.
type tomlScenario struct {
	Dynamics struct {
		A tomlMatrix `toml:"a"`
		B tomlMatrix `toml:"b"`
	} `toml:"dynamics"`
	State       tomlBox        `toml:"state"`
	Control     []tomlBox      `toml:"control"`
	Disturbance tomlBox        `toml:"disturbance"`
	Grid        tomlGrid       `toml:"grid"`
	Automaton   string         `toml:"automaton"`
	Objective   string         `toml:"objective"`
	CoSafe      bool           `toml:"co_safe"`
	Refinement  tomlRefinement `toml:"refinement"`
	Controller  tomlController `toml:"controller"`
}

// Objective selects the acceptance interpretation under which a scenario
// is solved. The solver treats both the same way modulo coSafe; the
// field is kept distinct because it documents author intent and a
// future safety-specific fast path could key off it.
const (
	ObjectiveReachability = "reachability"
	ObjectiveSafety       = "safety"
)

// Scenario is the fully-resolved, in-memory form of a verification run,
// as loaded from a TOML document.
type Scenario struct {
	Dynamics    geometry.Dynamics
	State       geometry.Box
	Control     geometry.Region
	Disturbance geometry.Box
	GridCounts  []int
	GridOptions []abstraction.GridOption
	Automaton   *automaton.Automaton
	Objective   string
	CoSafe      bool
	Refinement  RefinementParams
	Controller  ControllerChoice
}

// RefinementParams mirrors refinement.Config without importing the
// refinement package, keeping config a leaf dependency.
type RefinementParams struct {
	MaxIterations        int
	MaybeVolumeThreshold float64
}

// ControllerChoice names which of the closed controller registry to
// build, plus the automaton transition a PreRLayeredTransition onion is
// built around.
type ControllerChoice struct {
	Name      string
	FromState string
	ToState   string
}

// Load reads path, decodes it as TOML, and resolves it into a Scenario.
// Grounded on tunaq's recursiveUnmarshalResource: read the whole file,
// decode into an intermediate wire type, then convert field by field so
// decode errors and domain-validation errors stay distinguishable.
func Load(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes raw TOML bytes into a Scenario without touching disk.
func Parse(raw []byte) (Scenario, error) {
	var ts tomlScenario
	if _, err := toml.Decode(string(raw), &ts); err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario toml: %w", err)
	}
	return ts.toScenario()
}

func (ts tomlScenario) toScenario() (Scenario, error) {
	var sc Scenario

	a, err := ts.Dynamics.A.toMat()
	if err != nil {
		return sc, fmt.Errorf("dynamics.a: %w", err)
	}
	b, err := ts.Dynamics.B.toMat()
	if err != nil {
		return sc, fmt.Errorf("dynamics.b: %w", err)
	}
	dyn, err := geometry.NewDynamics(a, b)
	if err != nil {
		return sc, fmt.Errorf("dynamics: %w", err)
	}
	sc.Dynamics = dyn

	state, err := ts.State.toBox()
	if err != nil {
		return sc, fmt.Errorf("state: %w", err)
	}
	sc.State = state

	if len(ts.Control) == 0 {
		return sc, fmt.Errorf("control: %w", ErrMissingField)
	}
	control := make(geometry.Region, 0, len(ts.Control))
	for i, tb := range ts.Control {
		cb, err := tb.toBox()
		if err != nil {
			return sc, fmt.Errorf("control[%d]: %w", i, err)
		}
		control = append(control, cb)
	}
	sc.Control = control

	disturbance, err := ts.Disturbance.toBox()
	if err != nil {
		return sc, fmt.Errorf("disturbance: %w", err)
	}
	sc.Disturbance = disturbance

	if len(ts.Grid.Counts) == 0 {
		return sc, fmt.Errorf("grid.counts: %w", ErrMissingField)
	}
	sc.GridCounts = append([]int(nil), ts.Grid.Counts...)
	if ts.Grid.ControlSplits > 0 {
		sc.GridOptions = append(sc.GridOptions, abstraction.WithControlSplits(ts.Grid.ControlSplits))
	}
	for _, tp := range ts.Grid.Predicates {
		opt, err := tp.toGridOption()
		if err != nil {
			return sc, err
		}
		sc.GridOptions = append(sc.GridOptions, opt)
	}

	if ts.Automaton == "" {
		return sc, fmt.Errorf("automaton: %w", ErrMissingField)
	}
	auto, err := automaton.Parse(ts.Automaton)
	if err != nil {
		return sc, fmt.Errorf("automaton: %w", err)
	}
	sc.Automaton = auto

	switch ts.Objective {
	case ObjectiveReachability, ObjectiveSafety:
		sc.Objective = ts.Objective
	case "":
		sc.Objective = ObjectiveReachability
	default:
		return sc, fmt.Errorf("objective %q: %w", ts.Objective, ErrUnknownObjective)
	}
	sc.CoSafe = ts.CoSafe

	sc.Refinement = RefinementParams{
		MaxIterations:        ts.Refinement.MaxIterations,
		MaybeVolumeThreshold: ts.Refinement.MaybeVolumeThreshold,
	}
	if sc.Refinement.MaxIterations <= 0 {
		sc.Refinement.MaxIterations = 1
	}

	if ts.Controller.Name == "" {
		return sc, fmt.Errorf("controller.name: %w", ErrMissingField)
	}
	sc.Controller = ControllerChoice{
		Name:      ts.Controller.Name,
		FromState: ts.Controller.FromState,
		ToState:   ts.Controller.ToState,
	}

	return sc, nil
}
