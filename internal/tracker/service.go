// Package tracker implements the download-tracker service: a small HTTP
// API that records download events and serves aggregate per-content
// counters, backed by PostgreSQL.
package tracker

import (
	"context"
	"database/sql"
	"time"

	"github.com/Timi16/dehug-go/internal/dbx"
	"github.com/Timi16/dehug-go/internal/tracker/models"
	"github.com/Timi16/dehug-go/internal/tracker/repositories/downloads"
)

// Service holds the tracker's business logic over the repository layer.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// TrackDownload records one download: the entry is created on first sight,
// the event is appended, and the counters are bumped, all in one
// transaction so a crash never leaves the counters and the event log
// disagreeing.
func (s *Service) TrackDownload(ctx context.Context, itemName, source, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := downloads.NewPostgresRepository(tx)

		if err := repo.EnsureEntry(ctx, itemName); err != nil {
			return err
		}
		if err := repo.InsertEvent(ctx, &models.DownloadEvent{
			ItemName:  itemName,
			Source:    source,
			UserID:    userID,
			Timestamp: s.now(),
		}); err != nil {
			return err
		}
		return repo.BumpCounters(ctx, itemName, source)
	})
}

// Stats returns the aggregate counters of every tracked entry.
func (s *Service) Stats(ctx context.Context) (map[string]models.Stats, error) {
	return downloads.NewPostgresRepository(s.db).SelectStats(ctx)
}

// Healthy reports whether the database answers.
func (s *Service) Healthy(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
