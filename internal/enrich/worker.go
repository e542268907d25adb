package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"tome/internal/journal"
	"tome/internal/logging"
	"tome/internal/metadata"
	"tome/internal/scanner"
)

// Assistant is the lookup surface the worker consumes.
type Assistant interface {
	Lookup(ctx context.Context, filename, folder string) (string, error)
}

// Reconciler receives accepted artifacts for catalog synchronization.
type Reconciler interface {
	Reconcile(ctx context.Context, dir string, artifact metadata.Artifact)
}

// Outcome classifies one task's terminal state.
type Outcome string

const (
	// OutcomeProcessed means an artifact was accepted and persisted.
	OutcomeProcessed Outcome = "processed"
	// OutcomeRejected means the assistant answered but below the
	// confidence threshold.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means transport or parse failure.
	OutcomeFailed Outcome = "failed"
	// OutcomeAlreadyDone means the directory carried an artifact and no
	// overwrite was forced.
	OutcomeAlreadyDone Outcome = "already-done"
	// OutcomeError means the task panicked; other tasks are unaffected.
	OutcomeError Outcome = "error"
)

// TaskResult is the executor-visible record of one finished task.
type TaskResult struct {
	Task       scanner.Task
	Outcome    Outcome
	Title      string
	Confidence float64
	Err        error
	Duration   time.Duration
}

// Success reports whether the task produced an accepted artifact.
func (r TaskResult) Success() bool {
	return r.Outcome == OutcomeProcessed
}

// Worker enriches one task at a time. All steps run sequentially from the
// worker's point of view; concurrency lives in the executor.
type Worker struct {
	// RunID is stamped into journal events.
	RunID string
	// Force overwrites an existing artifact wholesale.
	Force bool
	// DryRun computes and journals decisions but suppresses the artifact
	// write and the catalog trigger, printing the would-be artifact instead.
	DryRun bool
	// Output receives dry-run artifacts. Defaults to io.Discard.
	Output io.Writer

	assistant  Assistant
	reconciler Reconciler
	sink       journal.Sink
	logger     *slog.Logger
}

// NewWorker constructs a worker. The reconciler may be nil when catalog
// synchronization is not configured.
func NewWorker(assistant Assistant, reconciler Reconciler, sink journal.Sink, logger *slog.Logger) *Worker {
	return &Worker{
		Output:     io.Discard,
		assistant:  assistant,
		reconciler: reconciler,
		sink:       sink,
		logger:     logging.WithComponent(logger, "enrich"),
	}
}

// Process runs the full enrichment sequence for one task. Every failure mode
// is terminal for the task only; the error inside the result is informational
// and never aborts the run.
func (w *Worker) Process(ctx context.Context, task scanner.Task) TaskResult {
	started := time.Now()
	result := TaskResult{Task: task}

	if metadata.HasArtifact(task.Dir) && !w.Force {
		w.logger.Info("skipping enriched folder",
			logging.String("dir", task.Dir))
		result.Outcome = OutcomeAlreadyDone
		result.Duration = time.Since(started)
		return result
	}

	raw, err := w.assistant.Lookup(ctx, filepath.Base(task.FilePath), task.Folder)
	if err != nil {
		w.record(journal.ChannelFailed, journal.Event{
			Folder: task.Dir,
			File:   task.FilePath,
			Reason: "assistant transport: " + err.Error(),
		})
		w.logger.Warn("assistant lookup failed",
			logging.String("dir", task.Dir),
			logging.Error(err))
		result.Outcome = OutcomeFailed
		result.Err = err
		result.Duration = time.Since(started)
		return result
	}

	record, err := metadata.ExtractRecord(raw)
	if err != nil {
		var parseErr *metadata.ParseError
		reason := err.Error()
		if errors.As(err, &parseErr) {
			reason = "parse: " + parseErr.Preview
		}
		w.record(journal.ChannelFailed, journal.Event{
			Folder: task.Dir,
			File:   task.FilePath,
			Reason: reason,
		})
		w.logger.Warn("no usable metadata in assistant output",
			logging.String("dir", task.Dir),
			logging.Error(err))
		result.Outcome = OutcomeFailed
		result.Err = err
		result.Duration = time.Since(started)
		return result
	}

	result.Title = record.Title
	result.Confidence = record.EffectiveConfidence()

	if !record.Accepted() {
		w.record(journal.ChannelRejected, journal.Event{
			Folder:     task.Dir,
			File:       task.FilePath,
			Title:      record.Title,
			Confidence: result.Confidence,
			Reason:     record.ConfidenceReason,
		})
		w.logger.Info("result below confidence threshold",
			logging.String("dir", task.Dir),
			logging.String("title", record.Title),
			logging.Float64("confidence", result.Confidence))
		result.Outcome = OutcomeRejected
		result.Duration = time.Since(started)
		return result
	}

	artifact := record.Artifact()
	if w.DryRun {
		if err := w.printArtifact(task, artifact); err != nil {
			w.logger.Warn("dry-run print failed", logging.Error(err))
		}
	} else {
		if err := metadata.WriteArtifact(task.Dir, artifact); err != nil {
			w.record(journal.ChannelFailed, journal.Event{
				Folder: task.Dir,
				File:   task.FilePath,
				Reason: "persist: " + err.Error(),
			})
			w.logger.Warn("artifact write failed",
				logging.String("dir", task.Dir),
				logging.Error(err))
			result.Outcome = OutcomeFailed
			result.Err = err
			result.Duration = time.Since(started)
			return result
		}
	}

	w.record(journal.ChannelProcessed, journal.Event{
		Folder:     task.Dir,
		File:       task.FilePath,
		Title:      record.Title,
		Confidence: result.Confidence,
		Reason:     record.ConfidenceReason,
	})
	w.logger.Info("book enriched",
		logging.String("dir", task.Dir),
		logging.String("title", record.Title),
		logging.Float64("confidence", result.Confidence),
		logging.Bool("dry_run", w.DryRun))

	if w.reconciler != nil && !w.DryRun {
		w.reconciler.Reconcile(ctx, task.Dir, artifact)
	}

	result.Outcome = OutcomeProcessed
	result.Duration = time.Since(started)
	return result
}

func (w *Worker) record(channel journal.Channel, evt journal.Event) {
	if w.sink == nil {
		return
	}
	evt.RunID = w.RunID
	w.sink.Record(channel, evt)
}

func (w *Worker) printArtifact(task scanner.Task, artifact metadata.Artifact) error {
	payload, err := metadata.EncodeArtifact(artifact)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.Output, "[dry-run] %s:\n%s", task.Dir, payload); err != nil {
		return err
	}
	return nil
}
