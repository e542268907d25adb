package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tome/internal/logging"
	"tome/internal/scanner"
)

// DefaultWorkers is the pool width when the configuration leaves it unset.
const DefaultWorkers = 4

// ProcessFunc runs one task to completion.
type ProcessFunc func(ctx context.Context, task scanner.Task) TaskResult

// Summary aggregates a whole run. Results appear in completion order, which
// under concurrency is not submission order.
type Summary struct {
	Results     []TaskResult
	Submitted   int
	Processed   int
	Rejected    int
	Failed      int
	AlreadyDone int
	Errors      int
}

func (s *Summary) add(result TaskResult) {
	s.Results = append(s.Results, result)
	switch result.Outcome {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeRejected:
		s.Rejected++
	case OutcomeFailed:
		s.Failed++
	case OutcomeAlreadyDone:
		s.AlreadyDone++
	case OutcomeError:
		s.Errors++
	}
}

// Executor fans tasks out over a fixed-width worker pool. A panicking task is
// contained and reported as OutcomeError without touching its siblings.
type Executor struct {
	// Workers is the pool width. Zero or negative falls back to
	// DefaultWorkers.
	Workers int
	// SuccessLimit stops the run early once that many tasks have produced
	// accepted artifacts. The stop is best effort: tasks already in flight
	// run to completion, but their results are no longer collected.
	// Zero means unlimited.
	SuccessLimit int

	logger *slog.Logger
}

// NewExecutor constructs an executor with the given pool width.
func NewExecutor(workers int, logger *slog.Logger) *Executor {
	return &Executor{
		Workers: workers,
		logger:  logging.WithComponent(logger, "executor"),
	}
}

// Run submits the tasks in order, collects results as they complete, and
// returns once every worker has wound down. The context cancels submission;
// tasks already handed to a worker finish on their own terms.
func (e *Executor) Run(ctx context.Context, tasks []scanner.Task, process ProcessFunc) Summary {
	width := e.Workers
	if width <= 0 {
		width = DefaultWorkers
	}
	summary := Summary{Submitted: len(tasks)}
	if len(tasks) == 0 {
		return summary
	}
	if width > len(tasks) {
		width = len(tasks)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	taskCh := make(chan scanner.Task)
	results := make(chan TaskResult)

	var wg sync.WaitGroup
	for i := 0; i < width; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				result := e.processSafely(runCtx, task, process)
				select {
				case results <- result:
				case <-runCtx.Done():
					// Collector already stopped; drop the result.
					return
				}
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-runCtx.Done():
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(results)
		close(done)
	}()

collect:
	for result := range results {
		summary.add(result)
		if result.Outcome == OutcomeError {
			e.logger.Error("task crashed",
				logging.String("dir", result.Task.Dir),
				logging.Error(result.Err))
		}
		if e.SuccessLimit > 0 && summary.Processed >= e.SuccessLimit {
			e.logger.Info("success limit reached, stopping early",
				logging.Int("limit", e.SuccessLimit))
			cancel()
			break collect
		}
	}
	<-done
	return summary
}

// processSafely contains panics from a single task so the pool survives.
func (e *Executor) processSafely(ctx context.Context, task scanner.Task, process ProcessFunc) (result TaskResult) {
	defer func() {
		if v := recover(); v != nil {
			result = TaskResult{
				Task:    task,
				Outcome: OutcomeError,
				Err:     fmt.Errorf("task panic: %v", v),
			}
		}
	}()
	return process(ctx, task)
}
