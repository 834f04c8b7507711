// Package downloads provides PostgreSQL-backed persistence for download
// tracking: entries with denormalized counters plus the append-only event
// log.
package downloads

import (
	"context"

	"github.com/Timi16/dehug-go/internal/tracker/models"
)

// Repository is the persistence boundary of the tracker service.
type Repository interface {
	// EnsureEntry creates the named entry with zeroed counters unless it
	// already exists.
	EnsureEntry(ctx context.Context, name string) error

	// InsertEvent appends one download event.
	InsertEvent(ctx context.Context, event *models.DownloadEvent) error

	// BumpCounters increments the entry's total and, for a known source,
	// the per-source counter.
	BumpCounters(ctx context.Context, name, source string) error

	// SelectStats returns the aggregate counters of every entry, keyed by
	// name.
	SelectStats(ctx context.Context) (map[string]models.Stats, error)
}
