package enrich

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tome/internal/logging"
	"tome/internal/scanner"
)

func makeTasks(n int) []scanner.Task {
	tasks := make([]scanner.Task, n)
	for i := range tasks {
		tasks[i] = scanner.Task{
			Dir:    fmt.Sprintf("/books/folder-%02d", i),
			Folder: fmt.Sprintf("folder-%02d", i),
		}
	}
	return tasks
}

func TestRunCollectsEveryResult(t *testing.T) {
	e := NewExecutor(3, logging.NewNop())
	summary := e.Run(context.Background(), makeTasks(10), func(_ context.Context, task scanner.Task) TaskResult {
		return TaskResult{Task: task, Outcome: OutcomeProcessed}
	})
	if summary.Submitted != 10 || summary.Processed != 10 || len(summary.Results) != 10 {
		t.Fatalf("summary: %+v", summary)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var current, peak atomic.Int32
	e := NewExecutor(2, logging.NewNop())
	e.Run(context.Background(), makeTasks(12), func(_ context.Context, task scanner.Task) TaskResult {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		current.Add(-1)
		return TaskResult{Task: task, Outcome: OutcomeProcessed}
	})
	if got := peak.Load(); got > 2 {
		t.Fatalf("pool width exceeded: %d concurrent tasks", got)
	}
}

func TestRunContainsPanics(t *testing.T) {
	e := NewExecutor(2, logging.NewNop())
	summary := e.Run(context.Background(), makeTasks(5), func(_ context.Context, task scanner.Task) TaskResult {
		if task.Folder == "folder-02" {
			panic("nil map write")
		}
		return TaskResult{Task: task, Outcome: OutcomeProcessed}
	})
	if summary.Errors != 1 || summary.Processed != 4 {
		t.Fatalf("summary: %+v", summary)
	}
	for _, result := range summary.Results {
		if result.Outcome == OutcomeError && result.Err == nil {
			t.Fatal("crashed task carries no error")
		}
	}
}

func TestRunStopsAtSuccessLimit(t *testing.T) {
	var processed atomic.Int32
	e := NewExecutor(2, logging.NewNop())
	e.SuccessLimit = 3
	summary := e.Run(context.Background(), makeTasks(50), func(_ context.Context, task scanner.Task) TaskResult {
		processed.Add(1)
		return TaskResult{Task: task, Outcome: OutcomeProcessed}
	})
	if summary.Processed != 3 {
		t.Fatalf("collected %d successes, want 3", summary.Processed)
	}
	// The stop is best effort: in-flight tasks finish, but nowhere near the
	// full batch should have run.
	if n := processed.Load(); n >= 50 {
		t.Fatalf("early stop had no effect: %d tasks ran", n)
	}
}

func TestRunFailuresDoNotCountTowardLimit(t *testing.T) {
	e := NewExecutor(1, logging.NewNop())
	e.SuccessLimit = 2
	tasks := makeTasks(6)
	summary := e.Run(context.Background(), tasks, func(_ context.Context, task scanner.Task) TaskResult {
		// Tasks 0, 2, 4 fail; 1, 3 succeed, then the limit stops the run.
		if task.Folder[len(task.Folder)-1]%2 == 0 {
			return TaskResult{Task: task, Outcome: OutcomeFailed}
		}
		return TaskResult{Task: task, Outcome: OutcomeProcessed}
	})
	if summary.Processed != 2 {
		t.Fatalf("processed = %d, want 2", summary.Processed)
	}
	if summary.Failed < 2 {
		t.Fatalf("failed = %d, want at least 2", summary.Failed)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var started sync.Once
	e := NewExecutor(1, logging.NewNop())
	summary := e.Run(ctx, makeTasks(100), func(_ context.Context, task scanner.Task) TaskResult {
		started.Do(cancel)
		return TaskResult{Task: task, Outcome: OutcomeProcessed}
	})
	if len(summary.Results) >= 100 {
		t.Fatalf("cancellation ignored: %d results", len(summary.Results))
	}
}

func TestRunEmptyBatch(t *testing.T) {
	e := NewExecutor(4, logging.NewNop())
	summary := e.Run(context.Background(), nil, func(_ context.Context, task scanner.Task) TaskResult {
		t.Fatal("process must not run for an empty batch")
		return TaskResult{}
	})
	if summary.Submitted != 0 || len(summary.Results) != 0 {
		t.Fatalf("summary: %+v", summary)
	}
}
