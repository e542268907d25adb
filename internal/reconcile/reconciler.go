package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"tome/internal/journal"
	"tome/internal/logging"
	"tome/internal/metadata"
	"tome/internal/services/audiobookshelf"
)

// Catalog is the slice of the Audiobookshelf client the reconciler consumes.
type Catalog interface {
	Libraries(ctx context.Context) ([]audiobookshelf.Library, error)
	LibraryItems(ctx context.Context, libraryID string) ([]audiobookshelf.Item, error)
	ScanItem(ctx context.Context, itemID string) error
}

// Reconciler maps enriched local folders to remote catalog items and triggers
// per-item re-scans. It never writes metadata fields to the remote service.
type Reconciler struct {
	// RunID is stamped into journal events.
	RunID string

	catalog Catalog
	sink    journal.Sink
	logger  *slog.Logger

	// index maps folder basename to remote item. Local and remote mounts
	// usually differ, so the basename is the only stable join key. Built
	// once by Prefetch and read-only afterwards, so workers need no lock.
	index map[string]audiobookshelf.Item
}

// New constructs a reconciler. Prefetch must run before Reconcile.
func New(catalog Catalog, sink journal.Sink, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		catalog: catalog,
		sink:    sink,
		logger:  logging.WithComponent(logger, "reconcile"),
	}
}

// Prefetch fetches the complete remote catalog once and builds the basename
// lookup. Duplicate basenames keep the first item seen; the collision is
// logged because re-scanning the wrong duplicate would be confusing to debug.
func (r *Reconciler) Prefetch(ctx context.Context) error {
	libraries, err := r.catalog.Libraries(ctx)
	if err != nil {
		return fmt.Errorf("prefetch catalog: %w", err)
	}

	index := make(map[string]audiobookshelf.Item)
	total := 0
	for _, library := range libraries {
		items, err := r.catalog.LibraryItems(ctx, library.ID)
		if err != nil {
			return fmt.Errorf("prefetch catalog library %q: %w", library.Name, err)
		}
		total += len(items)
		for _, item := range items {
			key := filepath.Base(item.Path)
			if existing, ok := index[key]; ok {
				r.logger.Warn("duplicate folder basename in catalog",
					logging.String("basename", key),
					logging.String("kept", existing.ID),
					logging.String("ignored", item.ID))
				continue
			}
			index[key] = item
		}
	}
	r.index = index
	r.logger.Info("catalog prefetched",
		logging.Int("libraries", len(libraries)),
		logging.Int("items", total))
	return nil
}

// Reconcile looks up the enriched folder in the prefetched index and, on a
// hit, journals a before/after comparison and triggers one re-scan. Every
// failure here is a warning: reconciliation never fails an enrichment task.
func (r *Reconciler) Reconcile(ctx context.Context, dir string, artifact metadata.Artifact) {
	basename := filepath.Base(dir)
	item, ok := r.index[basename]
	if !ok {
		// Expected whenever local and remote folder naming diverge.
		r.logger.Warn("no catalog entry for folder", logging.String("basename", basename))
		return
	}

	comparison := fmt.Sprintf("title: %q -> %q; author: %q -> %q",
		item.Title, artifact.Title, item.Author, artifact.PrimaryAuthor())
	if r.sink != nil {
		r.sink.Record(journal.ChannelComparison, journal.Event{
			RunID:  r.RunID,
			Folder: dir,
			Title:  artifact.Title,
			Detail: comparison,
		})
	}

	if err := r.catalog.ScanItem(ctx, item.ID); err != nil {
		r.logger.Warn("catalog re-scan trigger failed",
			logging.String("item", item.ID),
			logging.Error(err))
		return
	}
	r.logger.Info("catalog re-scan triggered",
		logging.String("item", item.ID),
		logging.String("basename", basename))
}

// IndexSize reports how many basenames the prefetched index holds.
func (r *Reconciler) IndexSize() int {
	return len(r.index)
}
