package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Job is the unit of work a Worker executes off the calling goroutine.
// Analysis results (e.g. an Analyze call) are almost never comparable to
// each other, so Job returns the bare interface{} the response carries.
type Job func(ctx context.Context) (interface{}, error)

// Response is a Job's outcome, correlated back to its Request by ID.
type Response struct {
	ID    uuid.UUID
	Value interface{}
	Err   error
}

type request struct {
	id     uuid.UUID
	job    Job
	ctx    context.Context
	replyC chan Response
}

// Worker is a minimal in-process analysis-dispatch collaborator: one
// goroutine draining a request channel, one in-flight request at a time,
// every response correlated to its request by a UUID.
type Worker struct {
	requests chan request
	closeC   chan struct{}
	closeOne sync.Once
	wg       sync.WaitGroup
}

// NewWorker starts the worker goroutine and returns a handle to it. Its
// request queue is buffered to depth queueDepth; Submit blocks once the
// queue is full, providing natural backpressure rather than an unbounded
// goroutine pile-up.
func NewWorker(queueDepth int) *Worker {
	if queueDepth < 1 {
		queueDepth = 1
	}
	w := &Worker{
		requests: make(chan request, queueDepth),
		closeC:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case req, ok := <-w.requests:
			if !ok {
				return
			}
			val, err := req.job(req.ctx)
			select {
			case req.replyC <- Response{ID: req.id, Value: val, Err: err}:
			case <-req.ctx.Done():
			}
		case <-w.closeC:
			return
		}
	}
}

// Submit enqueues job and returns its correlation ID alongside a channel
// that receives exactly one Response. The channel is buffered so the
// worker never blocks delivering it even if the caller has already
// abandoned ctx.
func (w *Worker) Submit(ctx context.Context, job Job) (uuid.UUID, <-chan Response, error) {
	select {
	case <-w.closeC:
		return uuid.UUID{}, nil, ErrWorkerStopped
	default:
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, nil, err
	}
	replyC := make(chan Response, 1)
	req := request{id: id, job: job, ctx: ctx, replyC: replyC}

	select {
	case w.requests <- req:
		return id, replyC, nil
	case <-w.closeC:
		return uuid.UUID{}, nil, ErrWorkerStopped
	case <-ctx.Done():
		return uuid.UUID{}, nil, ctx.Err()
	}
}

// Do submits job and blocks until its Response arrives, ctx is done, or
// the worker stops. It is the synchronous-RPC convenience callers use
// when they want to treat the worker channel as an opaque blocking call.
func (w *Worker) Do(ctx context.Context, job Job) (interface{}, error) {
	_, replyC, err := w.Submit(ctx, job)
	if err != nil {
		return nil, err
	}
	select {
	case resp := <-replyC:
		return resp.Value, resp.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.closeC:
		return nil, ErrWorkerStopped
	}
}

// Stop signals the worker goroutine to exit once its current job (if
// any) finishes and waits for it to return. Safe to call more than once.
func (w *Worker) Stop() {
	w.closeOne.Do(func() { close(w.closeC) })
	w.wg.Wait()
}
