package pptx

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

var ErrTaskFailed = errors.New("PPTX extraction task failed")

// Worker runs extractions off the caller's goroutine and caps how many run at
// once, so a large deck cannot starve concurrent requests of CPU.
type Worker struct {
	sem     *semaphore.Weighted
	extract func([]byte) (string, error)
}

// NewWorker creates a worker admitting up to maxConcurrent extractions.
// Values below 1 default to GOMAXPROCS.
func NewWorker(maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return &Worker{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		extract: ExtractText,
	}
}

type workerResult struct {
	text string
	err  error
}

// Extract runs ExtractText on data. A panic inside the extraction, or ctx
// ending before it finishes, is reported as ErrTaskFailed.
func (w *Worker) Extract(ctx context.Context, data []byte) (string, error) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTaskFailed, err)
	}

	done := make(chan workerResult, 1)
	go func() {
		defer w.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- workerResult{err: fmt.Errorf("%w: panic: %v", ErrTaskFailed, r)}
			}
		}()
		text, err := w.extract(data)
		done <- workerResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTaskFailed, context.Cause(ctx))
	}
}
