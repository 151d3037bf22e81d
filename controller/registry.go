package controller

import (
	"fmt"
	"math/rand"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/solver"
)

// Names of the closed registry of controllers.
const (
	NameRandom                = "Random"
	NameRoundRobin            = "RoundRobin"
	NamePreRLayeredTransition = "PreRLayeredTransition"
)

// Option configures New the way NewDynamics-adjacent functional options
// configure the rest of this module: immutable, resolved before the
// controller is constructed.
type Option func(*config)

type config struct {
	rng         *rand.Rand
	results     map[string]*solver.Result
	transitions map[string]string
}

// WithRand overrides the default deterministic RNG.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) { c.rng = rng }
}

// WithResults supplies the analysis results RoundRobin and
// PreRLayeredTransition need.
func WithResults(results map[string]*solver.Result) Option {
	return func(c *config) { c.results = results }
}

// WithTransitions supplies the q -> q' map PreRLayeredTransition uses to
// pick which onion to build for each automaton state.
func WithTransitions(transitions map[string]string) Option {
	return func(c *config) { c.transitions = transitions }
}

func newConfig(opts ...Option) config {
	cfg := config{rng: rand.New(rand.NewSource(1))}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// New builds the named controller over sys, consuming whichever of
// analysis results and transition map the chosen controller needs.
// Returns ErrUnknownController for any other name.
func New(name string, sys *abstraction.AbstractedLSS, opts ...Option) (Controller, error) {
	cfg := newConfig(opts...)
	switch name {
	case NameRandom:
		return NewRandom(sys, cfg.rng), nil
	case NameRoundRobin:
		return NewRoundRobin(sys, cfg.results, cfg.rng), nil
	case NamePreRLayeredTransition:
		return NewPreRLayeredTransition(sys, cfg.results, cfg.transitions, cfg.rng), nil
	default:
		return nil, fmt.Errorf("New(%q): %w", name, ErrUnknownController)
	}
}
