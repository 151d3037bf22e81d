// Package automaton implements a one-pair Streett automaton: a
// deterministic automaton over declared, ordered transition labels plus
// an optional default edge, with acceptance pair (E, F).
//
// States are looked up by label. Within a state, transitions are tried
// in declaration order via a caller-supplied predicate test; changing
// that order can change which successor is taken, so it must be
// preserved exactly. Transition order is kept with an emirpasic/gods
// linkedhashmap so iteration always replays declaration order, the same
// ordered-collection idiom npillmayer/gorgo's lr package uses for its
// item sets.
package automaton
