// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worker runs blocking calls (downloads, extraction, model
// inference) on a fixed pool of goroutines fed by a bounded queue, so
// request handlers never block the listener and the number of concurrent
// model calls stays capped.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pdiddy/curioquest/internal/metrics"
)

// ErrClosed is returned when submitting to a queue that has been closed.
var ErrClosed = errors.New("worker queue closed")

// Task is a unit of work run by a worker. The context is the submitter's.
type Task func(ctx context.Context)

type job struct {
	ctx context.Context
	fn  Task
}

// Queue is a bounded FIFO of tasks served by a fixed number of workers.
type Queue struct {
	jobs chan job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue starts workers goroutines (at least 1) reading from a queue that
// holds up to depth waiting tasks.
func NewQueue(workers, depth int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if depth < 0 {
		depth = 0
	}
	q := &Queue{jobs: make(chan job, depth)}
	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.run()
	}
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for j := range q.jobs {
		metrics.QueueWaiting.Dec()
		if j.ctx.Err() != nil {
			// Submitter gave up while the task waited; Do reports ctx.Err().
			continue
		}
		j.fn(j.ctx)
	}
}

// Submit enqueues fn, blocking while the queue is full. It returns ctx.Err()
// if ctx ends first and ErrClosed after Close.
func (q *Queue) Submit(ctx context.Context, fn Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	metrics.QueueWaiting.Inc()
	select {
	case q.jobs <- job{ctx: ctx, fn: fn}:
		return nil
	case <-ctx.Done():
		metrics.QueueWaiting.Dec()
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued tasks to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
}

type result[T any] struct {
	val T
	err error
}

// Do runs fn on q and waits for its result. If ctx ends before fn finishes
// Do returns ctx.Err(); fn keeps running with the cancelled context.
// A panic in fn is returned as an error.
func Do[T any](ctx context.Context, q *Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	done := make(chan result[T], 1)

	err := q.Submit(ctx, func(ctx context.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result[T]{err: fmt.Errorf("task panicked: %v", rec)}
			}
		}()
		v, err := fn(ctx)
		done <- result[T]{val: v, err: err}
	})
	if err != nil {
		return zero, err
	}

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
