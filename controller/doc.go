// Package controller builds PreR-layer onions around automaton
// transitions, ranks actions by which layer they aim into, and drives
// closed-loop traces through a chosen policy.
//
// Three controllers are registered by name: Random samples the global
// control polytope, RoundRobin cycles actions preferring ones that stay
// in the "yes" set, and PreRLayeredTransition follows the onion-ranked
// policy built by BuildOnion. All three satisfy the same Controller
// interface so Trace never special-cases a policy.
package controller
