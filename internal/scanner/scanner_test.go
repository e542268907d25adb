package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"tome/internal/journal"
	"tome/internal/logging"
	"tome/internal/testsupport"
)

func TestScanSplitsTasksAndSkips(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteAudioTree(t, root, map[string][]string{
		"BookA":        {"ch1.mp3", "ch2.mp3"},
		"BookB":        {"01 - Intro.mp3", "02 - Chapter One.mp3"},
		"BookC":        {"BookC.m4b"},
		"Empty":        {"cover.jpg"},
		"Nested/BookD": {"track01.mp3", "track02.mp3"},
	})

	sink := journal.NewMemorySink()
	s := New(sink, logging.NewNop())
	result, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.Examined != 4 {
		t.Fatalf("expected 4 examined directories, got %d", result.Examined)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d: %+v", len(result.Tasks), result.Tasks)
	}
	if len(result.Skips) != 1 {
		t.Fatalf("expected 1 skip, got %+v", result.Skips)
	}
	if filepath.Base(result.Skips[0].Dir) != "BookA" {
		t.Fatalf("expected BookA skipped, got %q", result.Skips[0].Dir)
	}

	// Tasks follow lexical scan order; BookB comes before BookC.
	if result.Tasks[0].Folder != "BookB" {
		t.Fatalf("unexpected first task: %+v", result.Tasks[0])
	}
	if filepath.Base(result.Tasks[0].FilePath) != "01 - Intro.mp3" {
		t.Fatalf("representative must be the first audio file: %+v", result.Tasks[0])
	}

	skipped := sink.Events(journal.ChannelSkipped)
	if len(skipped) != 1 || skipped[0].Reason != "mixed content: no grouping rule matched" {
		t.Fatalf("unexpected skip journal: %+v", skipped)
	}
}

func TestScanLimitBoundsExaminedNotAccepted(t *testing.T) {
	root := t.TempDir()
	// Lexical order: A-Mixed first, then B and C. A limit of 2 must stop
	// after B even though A-Mixed produced no task.
	testsupport.WriteAudioTree(t, root, map[string][]string{
		"A-Mixed": {"ch1.mp3", "foo.mp3"},
		"B":       {"01.mp3", "02.mp3"},
		"C":       {"01.mp3", "02.mp3"},
	})

	s := New(journal.NewMemorySink(), logging.NewNop())
	s.Limit = 2
	result, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Examined != 2 {
		t.Fatalf("expected exactly 2 examined, got %d", result.Examined)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Folder != "B" {
		t.Fatalf("expected only B accepted, got %+v", result.Tasks)
	}
}

func TestScanLimitCountsSkipsAsExamined(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteAudioTree(t, root, map[string][]string{
		"A-Mixed": {"ch1.mp3", "foo.mp3"},
		"B-Mixed": {"bar.mp3", "qux.mp3"},
		"C":       {"01.mp3", "02.mp3"},
	})

	s := New(journal.NewMemorySink(), logging.NewNop())
	s.Limit = 2
	result, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Examined != 2 {
		t.Fatalf("expected 2 examined, got %d", result.Examined)
	}
	if len(result.Tasks) != 0 {
		t.Fatalf("expected no tasks when the limit is spent on skips, got %+v", result.Tasks)
	}
}

func TestScanIgnoresNonAudioDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteAudioTree(t, root, map[string][]string{
		"Docs":  {"readme.txt"},
		"Art":   {"cover.jpg", "back.png"},
		"BookA": {"BookA.m4b"},
	})

	s := New(journal.NewMemorySink(), logging.NewNop())
	result, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Examined != 1 {
		t.Fatalf("expected only the audio directory examined, got %d", result.Examined)
	}
}

func TestScanCancelledContext(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteAudioTree(t, root, map[string][]string{"BookA": {"BookA.m4b"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(journal.NewMemorySink(), logging.NewNop())
	if _, err := s.Scan(ctx, root); err == nil {
		t.Fatal("expected context error")
	}
}
