package dispatch

import "errors"

// ErrWorkerStopped is returned when a request is submitted after Stop has
// been called, or when the worker goroutine exits while a request is
// still in flight.
var ErrWorkerStopped = errors.New("dispatch: worker stopped")
