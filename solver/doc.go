// Package solver computes the almost-sure winning region of a 2½-player
// parity-3 game via a triply-nested GFP(X) ⊇ LFP(Y) ⊇ GFP(Z) fixed point,
// in both adversarial and cooperative quantifications of player 2, and
// assembles the per-system-state analysis record consumed by the
// controller layer.
//
// Set operations (X, Y, Z and the priority partitions) are bitsets indexed
// by arena position, so fixed-point iterations reduce to word-parallel
// unions and subset tests.
package solver
