// Package refinement drives the abstraction-refinement loop: build,
// solve, split the cell carrying the most "maybe" volume along its
// longest axis, rebuild, solve again, repeat until the maybe volume
// falls below a threshold or an iteration budget is exhausted.
package refinement
