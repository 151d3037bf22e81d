package abstraction

import (
	"fmt"
	"sort"

	"github.com/veylan/lssverify/geometry"
)

// GridOption configures BuildGrid the way builder.BuilderOption configures
// lvlath's BuildGraph: immutable, resolved once before construction starts.
type GridOption func(*gridConfig)

type gridConfig struct {
	controlSplits int
	predicates    []predicateTag
}

type predicateTag struct {
	name string
	test func(cell geometry.Box) bool
}

// WithControlSplits sets how many equal sub-boxes the control polytope is
// divided into per axis to produce the abstraction's action set (default 2).
func WithControlSplits(n int) GridOption {
	return func(c *gridConfig) {
		if n > 0 {
			c.controlSplits = n
		}
	}
}

// WithPredicate tags every grid cell whose polytope satisfies test with the
// predicate label name.
func WithPredicate(name string, test func(cell geometry.Box) bool) GridOption {
	return func(c *gridConfig) {
		c.predicates = append(c.predicates, predicateTag{name: name, test: test})
	}
}

func newGridConfig(opts ...GridOption) gridConfig {
	cfg := gridConfig{controlSplits: 2}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// BuildGrid partitions state into an axis-aligned grid of counts[i] cells
// per axis, splits controlAll into controlSplits^dim action sub-boxes, and
// computes each action's supports from the extreme points of disturbance:
// every vertex of the disturbance box gives one support, whose targets are
// every grid cell overlapping the one-step image under that disturbance
// vertex, plus the outer sink whenever the grid cells do not cover that
// image (identical supports are merged). This is the grid analogue of builder.BuildGraph:
// one orchestrator (BuildGrid) applying deterministic constructors (the
// per-cell, per-action sub-builders below) in a fixed order.
func BuildGrid(state geometry.Box, counts []int, d geometry.Dynamics, disturbance geometry.Box, controlAll geometry.Region, opts ...GridOption) (*AbstractedLSS, error) {
	if len(counts) != state.Dim() {
		return nil, fmt.Errorf("BuildGrid: counts has %d entries, state has dim %d: %w", len(counts), state.Dim(), geometry.ErrDimensionMismatch)
	}
	cells, labels, err := partitionBox(state, counts)
	if err != nil {
		return nil, err
	}
	return buildFromCellMap(cells, labels, d, disturbance, controlAll, opts...)
}

// BuildFromCells builds an abstraction from an arbitrary, possibly
// non-uniform, list of axis-aligned cells — the shape a refinement pass
// produces after splitting one cell along its longest axis. Cells are
// labelled by their position in cellList, stringified.
func BuildFromCells(cellList []geometry.Box, d geometry.Dynamics, disturbance geometry.Box, controlAll geometry.Region, opts ...GridOption) (*AbstractedLSS, error) {
	cells := make(map[string]geometry.Box, len(cellList))
	labels := make([]string, len(cellList))
	for i, cell := range cellList {
		label := fmt.Sprint(i)
		cells[label] = cell
		labels[i] = label
	}
	return buildFromCellMap(cells, labels, d, disturbance, controlAll, opts...)
}

func buildFromCellMap(cells map[string]geometry.Box, labels []string, d geometry.Dynamics, disturbance geometry.Box, controlAll geometry.Region, opts ...GridOption) (*AbstractedLSS, error) {
	cfg := newGridConfig(opts...)
	actionBoxes, err := splitControl(controlAll, cfg.controlSplits)
	if err != nil {
		return nil, err
	}

	const outerLabel = "__OUTER__"
	states := make([]SystemState, 0, len(labels)+1)
	for _, label := range labels {
		cell := cells[label]
		preds := make(map[string]struct{})
		for _, tag := range cfg.predicates {
			if tag.test(cell) {
				preds[tag.name] = struct{}{}
			}
		}

		var actions []Action
		for _, actionBox := range actionBoxes {
			supports := buildSupports(cell, actionBox, d, disturbance, cells, labels, outerLabel)
			if len(supports) == 0 {
				continue
			}
			actions = append(actions, Action{
				Control:  geometry.NewRegion(actionBox),
				Supports: supports,
			})
		}
		if len(actions) == 0 {
			// No action produced a support (its one-step image could not
			// be bounded): treat the cell as escaping, matching the
			// invariant that only outer states may lack actions. Images
			// leaving the grid do not land here; they target the outer
			// sink.
			states = append(states, SystemState{
				Label:      label,
				Polytope:   geometry.NewRegion(cell),
				Predicates: preds,
				Outer:      true,
			})
			continue
		}

		states = append(states, SystemState{
			Label:      label,
			Polytope:   geometry.NewRegion(cell),
			Predicates: preds,
			Actions:    actions,
		})
	}
	states = append(states, SystemState{Label: outerLabel, Outer: true})

	return NewAbstractedLSS(d, disturbance, controlAll, states)
}

func buildSupports(cell, actionBox geometry.Box, d geometry.Dynamics, disturbance geometry.Box, cells map[string]geometry.Box, labels []string, outerLabel string) []Support {
	type supportKey string
	seen := make(map[supportKey]struct{})
	var supports []Support

	var pts []geometry.Vec
	for _, sv := range cell.Vertices() {
		ax := d.A.Apply(sv)
		for _, cv := range actionBox.Vertices() {
			pts = append(pts, ax.Add(d.B.Apply(cv)))
		}
	}
	base, err := geometry.BoundingBox(pts)
	if err != nil {
		return nil
	}

	for _, w := range disturbance.Vertices() {
		image := geometry.Box{Lo: base.Lo.Add(w), Hi: base.Hi.Add(w)}
		targets := overlappingCells(image, cells, labels, outerLabel)
		if len(targets) == 0 {
			continue
		}
		key := supportKey(fmt.Sprint(targets))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		supports = append(supports, Support{Targets: targets})
	}
	return supports
}

func overlappingCells(image geometry.Box, cells map[string]geometry.Box, labels []string, outerLabel string) []string {
	var hits []string
	for _, label := range labels {
		if _, ok := image.Intersect(cells[label]); ok {
			hits = append(hits, label)
		}
	}
	if len(hits) == 0 {
		return []string{outerLabel}
	}
	covered := make(geometry.Region, 0, len(hits))
	for _, label := range hits {
		covered = append(covered, cells[label])
	}
	if !covered.Covers(geometry.Region{image}) {
		hits = append(hits, outerLabel)
	}
	sort.Strings(hits)
	return hits
}

// partitionBox splits state into the cartesian product of counts[i] equal
// intervals per axis, labelling each cell by its comma-separated index
// tuple, row-major, mirroring builder.Grid's "r,c" ID scheme generalised to
// n dimensions.
func partitionBox(state geometry.Box, counts []int) (map[string]geometry.Box, []string, error) {
	n := state.Dim()
	for i, c := range counts {
		if c <= 0 {
			return nil, nil, fmt.Errorf("partitionBox: axis %d has non-positive count %d: %w", i, c, geometry.ErrDegenerateBox)
		}
	}

	cells := make(map[string]geometry.Box)
	var labels []string
	idx := make([]int, n)
	for {
		lo := make(geometry.Vec, n)
		hi := make(geometry.Vec, n)
		for i := 0; i < n; i++ {
			width := (state.Hi[i] - state.Lo[i]) / float64(counts[i])
			lo[i] = state.Lo[i] + float64(idx[i])*width
			hi[i] = state.Lo[i] + float64(idx[i]+1)*width
		}
		cell, err := geometry.NewBox(lo, hi)
		if err != nil {
			return nil, nil, fmt.Errorf("partitionBox: %w", err)
		}
		label := labelOf(idx)
		cells[label] = cell
		labels = append(labels, label)

		pos := n - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < counts[pos] {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return cells, labels, nil
}

func labelOf(idx []int) string {
	out := ""
	for i, v := range idx {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprint(v)
	}
	return out
}

// splitControl divides controlAll's bounding box into splits^dim equal
// sub-boxes per axis, the abstraction's action set.
func splitControl(controlAll geometry.Region, splits int) ([]geometry.Box, error) {
	if splits <= 0 {
		return nil, fmt.Errorf("splitControl: non-positive splits %d: %w", splits, geometry.ErrDegenerateBox)
	}
	bb, err := geometry.BoundingBox(controlAll.Vertices())
	if err != nil {
		return nil, fmt.Errorf("splitControl: %w", err)
	}
	counts := make([]int, bb.Dim())
	for i := range counts {
		counts[i] = splits
	}
	cells, labels, err := partitionBox(bb, counts)
	if err != nil {
		return nil, err
	}
	out := make([]geometry.Box, 0, len(labels))
	for _, label := range labels {
		out = append(out, cells[label])
	}
	return out, nil
}
