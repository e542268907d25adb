package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tome/internal/journal"
	"tome/internal/logging"
	"tome/internal/metadata"
	"tome/internal/services/audiobookshelf"
)

type fakeCatalog struct {
	libraries []audiobookshelf.Library
	items     map[string][]audiobookshelf.Item
	scanned   []string
	scanErr   error
}

func (f *fakeCatalog) Libraries(context.Context) ([]audiobookshelf.Library, error) {
	return f.libraries, nil
}

func (f *fakeCatalog) LibraryItems(_ context.Context, libraryID string) ([]audiobookshelf.Item, error) {
	return f.items[libraryID], nil
}

func (f *fakeCatalog) ScanItem(_ context.Context, itemID string) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	f.scanned = append(f.scanned, itemID)
	return nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		libraries: []audiobookshelf.Library{{ID: "lib1", Name: "Audiobooks"}},
		items: map[string][]audiobookshelf.Item{
			"lib1": {
				{ID: "item1", Path: "/srv/audiobooks/BookB", Title: "Old Title", Author: "Old Author"},
				{ID: "item2", Path: "/srv/audiobooks/BookC", Title: "Book C", Author: ""},
			},
		},
	}
}

func TestReconcileMatchTriggersOneScanAndComparison(t *testing.T) {
	catalog := newFakeCatalog()
	sink := journal.NewMemorySink()
	r := New(catalog, sink, logging.NewNop())
	if err := r.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if r.IndexSize() != 2 {
		t.Fatalf("unexpected index size: %d", r.IndexSize())
	}

	artifact := metadata.Artifact{Title: "Book B", Authors: []string{"New Author"}}
	r.Reconcile(context.Background(), "/local/books/BookB", artifact)

	if len(catalog.scanned) != 1 || catalog.scanned[0] != "item1" {
		t.Fatalf("expected exactly one scan for item1, got %v", catalog.scanned)
	}
	comparisons := sink.Events(journal.ChannelComparison)
	if len(comparisons) != 1 {
		t.Fatalf("expected one comparison event, got %d", len(comparisons))
	}
	detail := comparisons[0].Detail
	if !strings.Contains(detail, `"Old Title" -> "Book B"`) || !strings.Contains(detail, `"Old Author" -> "New Author"`) {
		t.Fatalf("unexpected comparison: %q", detail)
	}
}

func TestReconcileMissIsSilentWarning(t *testing.T) {
	catalog := newFakeCatalog()
	sink := journal.NewMemorySink()
	r := New(catalog, sink, logging.NewNop())
	if err := r.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	// Trailing space makes the basename differ; no match expected.
	r.Reconcile(context.Background(), "/local/books/BookB ", metadata.Artifact{Title: "Book B"})

	if len(catalog.scanned) != 0 {
		t.Fatalf("no scan expected on miss, got %v", catalog.scanned)
	}
	if len(sink.Events(journal.ChannelComparison)) != 0 {
		t.Fatal("no comparison expected on miss")
	}
}

func TestReconcileScanFailureDoesNotPropagate(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.scanErr = errors.New("boom")
	r := New(catalog, journal.NewMemorySink(), logging.NewNop())
	if err := r.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	// Must not panic or return anything; the trigger is fire-and-forget.
	r.Reconcile(context.Background(), "/local/books/BookC", metadata.Artifact{Title: "Book C"})
}

func TestPrefetchKeepsFirstDuplicateBasename(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.items["lib1"] = append(catalog.items["lib1"],
		audiobookshelf.Item{ID: "item3", Path: "/other/mount/BookB", Title: "Duplicate"})
	r := New(catalog, journal.NewMemorySink(), logging.NewNop())
	if err := r.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	r.Reconcile(context.Background(), "/local/books/BookB", metadata.Artifact{Title: "X"})
	if len(catalog.scanned) != 1 || catalog.scanned[0] != "item1" {
		t.Fatalf("expected first item kept, got %v", catalog.scanned)
	}
}
