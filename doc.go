// Package lssverify is your workbench for verifying linear stochastic
// systems against ω-regular objectives.
//
// What is lssverify?
//
//	A library and CLI that bring together:
//
//	  - Polytopic geometry: boxes, regions, and the pre/preR/post/attr
//	    reachability operators a linear stochastic system is abstracted
//	    through (geometry)
//	  - Finite-state abstraction: grid the state space, tag predicates,
//	    refine the highest-uncertainty cell and repeat (abstraction,
//	    refinement)
//	  - One-pair Streett automata over predicate labels (automaton) and
//	    the 2½-player parity-3 game their product with an abstraction
//	    forms (game)
//	  - A triply-nested fixed-point solver deciding, for every system
//	    state and automaton state, whether the controller can force the
//	    objective, whether the disturbance can force its failure, or
//	    neither (solver)
//	  - Controller synthesis and closed-loop trace execution against the
//	    synthesized strategy (controller)
//
// Under the hood, everything is organized under:
//
//	geometry/     — boxes, regions, dynamics, reachability operators
//	automaton/    — one-pair Streett automata, text parsing
//	abstraction/  — grid construction, refinement-ready cell abstraction
//	game/         — product-game construction (BFS over the abstraction)
//	solver/       — the triply-nested fixed point and its bitset arena
//	controller/   — controller registry, onion construction, trace executor
//	refinement/   — the build-solve-split loop driving abstraction refinement
//	config/       — TOML scenario loading
//	dispatch/     — the background-worker analysis dispatch boundary
//	cmd/lssverify — the CLI/REPL entry point
package lssverify
