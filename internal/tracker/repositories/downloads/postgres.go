package downloads

import (
	"context"
	"fmt"

	"github.com/Timi16/dehug-go/internal/common"
	"github.com/Timi16/dehug-go/internal/dbx"
	"github.com/Timi16/dehug-go/internal/tracker/models"
)

// PostgresRepository implements download tracking over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureEntry(ctx context.Context, name string) error {
	query := `
		INSERT INTO entries (name, total_downloads, download_count_sdk, download_count_ui)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (name) DO NOTHING;
	`
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertEvent(ctx context.Context, event *models.DownloadEvent) error {
	query := `
		INSERT INTO download_events (item_name, source, user_id, timestamp)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := r.db.ExecContext(ctx, query, event.ItemName, event.Source, event.UserID, event.Timestamp); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) BumpCounters(ctx context.Context, name, source string) error {
	var query string
	switch source {
	case common.DownloadSourceSDK:
		query = `UPDATE entries SET total_downloads = total_downloads + 1, download_count_sdk = download_count_sdk + 1 WHERE name = $1;`
	case common.DownloadSourceUI:
		query = `UPDATE entries SET total_downloads = total_downloads + 1, download_count_ui = download_count_ui + 1 WHERE name = $1;`
	default:
		query = `UPDATE entries SET total_downloads = total_downloads + 1 WHERE name = $1;`
	}

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SelectStats(ctx context.Context) (map[string]models.Stats, error) {
	query := `
		SELECT name, download_count_sdk, download_count_ui, total_downloads
		FROM entries
		ORDER BY name;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]models.Stats)
	for rows.Next() {
		var name string
		var s models.Stats
		if err := rows.Scan(&name, &s.SDK, &s.UI, &s.Total); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		stats[name] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return stats, nil
}
