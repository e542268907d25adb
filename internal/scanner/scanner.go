package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"tome/internal/journal"
	"tome/internal/logging"
)

// Candidate is one directory containing recognized audio files, after
// classification. Candidates are immutable once built.
type Candidate struct {
	Dir            string
	AudioFiles     []string
	Class          Classification
	Rule           string
	Representative string
}

// Task is a Candidate accepted for enrichment.
type Task struct {
	// FilePath is the absolute path of the representative audio file.
	FilePath string
	// Dir is the directory the artifact will be written to.
	Dir string
	// Folder is the directory basename, used as search context.
	Folder string
}

// Skip records one directory the scanner declined, with the reason.
type Skip struct {
	Dir    string
	Reason string
}

// Result is the ordered outcome of one scan pass.
type Result struct {
	Tasks      []Task
	Skips      []Skip
	Candidates []Candidate
	// Examined counts directories that contained at least one audio file,
	// whether accepted or skipped.
	Examined int
}

// Scanner walks a library tree and turns single-work folders into tasks.
type Scanner struct {
	// Limit bounds the number of directories-with-audio examined; zero or
	// negative means unlimited. The limit caps scan effort, not successes:
	// traversal stops at the limit even when the last directory was a skip.
	Limit int
	// RunID is stamped into journal events.
	RunID string

	sink   journal.Sink
	logger *slog.Logger
}

// New constructs a scanner. A nil sink disables journaling.
func New(sink journal.Sink, logger *slog.Logger) *Scanner {
	return &Scanner{sink: sink, logger: logging.WithComponent(logger, "scanner")}
}

// Scan traverses root recursively. Directories are visited in lexical order;
// the audio files of each directory keep that same enumeration order, and the
// first one becomes the representative file.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	var result Result

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk error", logging.String("path", path), logging.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		names, err := audioNames(path)
		if err != nil {
			s.logger.Warn("read dir failed", logging.String("dir", path), logging.Error(err))
			return nil
		}
		if len(names) == 0 {
			return nil
		}

		result.Examined++
		candidate := classifyDir(path, names)
		result.Candidates = append(result.Candidates, candidate)

		switch candidate.Class {
		case SingleWork:
			result.Tasks = append(result.Tasks, Task{
				FilePath: filepath.Join(path, candidate.Representative),
				Dir:      path,
				Folder:   filepath.Base(path),
			})
			s.logger.Debug("candidate accepted",
				logging.String("dir", path),
				logging.String("rule", candidate.Rule),
				logging.Int("files", len(names)))
		case Mixed:
			reason := "mixed content: " + candidate.Rule
			result.Skips = append(result.Skips, Skip{Dir: path, Reason: reason})
			s.logger.Info("candidate skipped",
				logging.String("dir", path),
				logging.String("reason", reason))
			if s.sink != nil {
				s.sink.Record(journal.ChannelSkipped, journal.Event{
					RunID:  s.RunID,
					Folder: path,
					Reason: reason,
				})
			}
		}

		if s.Limit > 0 && result.Examined >= s.Limit {
			s.logger.Info("scan limit reached", logging.Int("limit", s.Limit))
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func classifyDir(dir string, names []string) Candidate {
	class, rule := Classify(filepath.Base(dir), names)
	return Candidate{
		Dir:            dir,
		AudioFiles:     names,
		Class:          class,
		Rule:           rule,
		Representative: names[0],
	}
}

// audioNames returns the recognized audio files directly inside dir, in
// directory enumeration order (lexical), without recursing.
func audioNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsAudioFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
