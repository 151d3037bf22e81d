// Package game builds the 2½-player parity-3 product game from an
// abstraction's game-graph view and a one-pair Streett automaton.
//
// States are a tagged variant (P1State, P2State) held in a flat arena and
// referenced by index rather than pointer, so moves — finite non-empty sets
// of successor states — are plain []int slices into the owning arena. This
// mirrors the polymorphic-index design of other_examples' arena-style
// graphs and sidesteps cyclic ownership for the mutually-pointing dead-end
// sinks.
package game
