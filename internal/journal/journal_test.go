package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"testing"
)

func TestFileSinkPartitionsChannels(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer sink.Close()

	sink.Record(ChannelProcessed, Event{Folder: "/books/A", Title: "A"})
	sink.Record(ChannelRejected, Event{Folder: "/books/B", Confidence: 0.3})
	sink.Record(ChannelProcessed, Event{Folder: "/books/C", Title: "C"})

	processed := readEvents(t, sink.Path(ChannelProcessed))
	if len(processed) != 2 {
		t.Fatalf("expected 2 processed events, got %d", len(processed))
	}
	if processed[0].Folder != "/books/A" || processed[1].Folder != "/books/C" {
		t.Fatalf("unexpected processed order: %+v", processed)
	}

	rejected := readEvents(t, sink.Path(ChannelRejected))
	if len(rejected) != 1 || rejected[0].Confidence != 0.3 {
		t.Fatalf("unexpected rejected events: %+v", rejected)
	}

	if _, err := os.Stat(sink.Path(ChannelFailed)); !os.IsNotExist(err) {
		t.Fatal("failed channel should not exist when nothing was recorded")
	}
}

func TestFileSinkConcurrentAppendsStayWholeLines(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer sink.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				sink.Record(ChannelFailed, Event{Folder: "/books/X", Reason: "parse error"})
			}
		}()
	}
	wg.Wait()

	events := readEvents(t, sink.Path(ChannelFailed))
	if len(events) != 200 {
		t.Fatalf("expected 200 events, got %d", len(events))
	}
}

func TestMemorySinkSnapshotIsCopy(t *testing.T) {
	sink := NewMemorySink()
	sink.Record(ChannelSkipped, Event{Folder: "/books/Mixed", Reason: "mixed content"})

	events := sink.Events(ChannelSkipped)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	events[0].Folder = "mutated"
	if sink.Events(ChannelSkipped)[0].Folder != "/books/Mixed" {
		t.Fatal("Events must return a copy")
	}
}

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal %s: %v", path, err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var evt Event
		if err := json.Unmarshal(scanner.Bytes(), &evt); err != nil {
			t.Fatalf("malformed journal line %q: %v", scanner.Text(), err)
		}
		events = append(events, evt)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return events
}
