package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerDoReturnsJobValue(t *testing.T) {
	w := NewWorker(1)
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	val, err := w.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestWorkerDoPropagatesJobError(t *testing.T) {
	w := NewWorker(1)
	defer w.Stop()

	wantErr := errors.New("boom")
	ctx := context.Background()
	_, err := w.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestWorkerSubmitCorrelatesResponseByID(t *testing.T) {
	w := NewWorker(1)
	defer w.Stop()

	ctx := context.Background()
	id, replyC, err := w.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	resp := <-replyC
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "ok", resp.Value)
}

func TestWorkerRunsRequestsSequentially(t *testing.T) {
	w := NewWorker(4)
	defer w.Stop()

	var order []int
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		i := i
		go func() {
			_, _ = w.Do(context.Background(), func(ctx context.Context) (interface{}, error) {
				order = append(order, i)
				return nil, nil
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 3; i++ {
		<-done
	}
	assert.Len(t, order, 3)
}

func TestWorkerDoAfterStopReturnsErrWorkerStopped(t *testing.T) {
	w := NewWorker(1)
	w.Stop()

	_, err := w.Do(context.Background(), func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrWorkerStopped)
}
