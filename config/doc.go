// Package config loads a verification scenario — dynamics, polytopes,
// automaton text, objective, controller choice, and grid/refinement
// parameters — from a TOML document into the public Scenario type.
package config
