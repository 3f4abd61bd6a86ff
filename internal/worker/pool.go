// Package worker provides bounded-concurrency execution for claim
// processing batches.
package worker

import (
	"context"
	"sync"

	"github.com/clearhull/claimwatch/internal/model"
)

// Task processes one claim and returns its result.
type Task func(ctx context.Context) model.ProcessingResult

// Pool executes tasks with a fixed number of workers. Results keep the
// submission order regardless of completion order, so batch summaries stay
// deterministic.
type Pool struct {
	workers int
}

// NewPool creates a pool. workers below 1 is clamped to 1, which is also the
// safe default: concurrent claims that duplicate each other can both pass
// the duplicate check against the same registry snapshot.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all tasks and returns their results in submission order.
// Cancellation stops the dispatch of new tasks; running tasks observe ctx
// themselves.
func (p *Pool) Run(ctx context.Context, tasks []Task) []model.ProcessingResult {
	results := make([]model.ProcessingResult, len(tasks))

	type indexed struct {
		idx  int
		task Task
	}
	queue := make(chan indexed)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				results[item.idx] = item.task(ctx)
			}
		}()
	}

dispatch:
	for i, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- indexed{idx: i, task: task}:
		}
	}
	close(queue)
	wg.Wait()

	return results
}
