// Package proposition implements a small, immutable expression tree of
// atoms and boolean connectives, evaluated against a valuation of
// atomic symbols.
//
// Formulas are built once via the constructors below (Atom, Not, And, Or,
// Implies) and never mutated afterward; Eval and Traverse are pure
// functions of the tree and a caller-supplied Valuation.
package proposition
