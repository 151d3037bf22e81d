// Package dispatch is the one collaborator boundary the core crosses
// threads at: a single goroutine-backed worker that accepts one
// in-flight analysis request at a time over a buffered channel and
// answers with a UUID-correlated response. Callers treat this as an
// opaque synchronous RPC; everything upstream of it (solver, product
// construction, controller, trace) stays single-threaded.
package dispatch
