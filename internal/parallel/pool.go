// Package parallel runs independent propagation jobs on a bounded set of
// goroutines. Each job owns its solver and propagator; nothing is shared
// between jobs, so the pool only has to bound concurrency and collect
// results in submission order.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("parallel: worker pool has been shut down")

// ErrJobPanicked wraps a panic raised by a job, e.g. a broken invariant
// detected while CheckInvariants is on.
var ErrJobPanicked = errors.New("parallel: job panicked")

// WorkerPool manages a fixed set of goroutines fed through a buffered
// channel. Submit blocks once the buffer is full, which throttles producers
// to the pace of the workers.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}
	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			task()
		case <-wp.shutdownChan:
			// Run what was accepted before the shutdown.
			for {
				select {
				case task := <-wp.taskChan:
					task()
				default:
					return
				}
			}
		}
	}
}

// Submit queues task for execution. It blocks while the queue is full and
// fails when ctx is done or the pool has been shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting tasks and waits for the queued and running ones
// to complete. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}

// Result is the outcome of one job run by Map.
type Result[T any] struct {
	Value T
	Err   error
}

// Map runs fn(ctx, i) for every i in [0, n) on wp and returns the results
// in index order. A failing job does not stop the others; jobs that could
// not be submitted (ctx done, pool shut down) carry the submission error.
func Map[T any](ctx context.Context, wp *WorkerPool, n int, fn func(context.Context, int) (T, error)) []Result[T] {
	results := make([]Result[T], n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := wp.Submit(ctx, func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i].Err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
				}
			}()
			results[i].Value, results[i].Err = fn(ctx, i)
		})
		if err != nil {
			wg.Done()
			for j := i; j < n; j++ {
				results[j].Err = err
			}
			break
		}
	}
	wg.Wait()
	return results
}
