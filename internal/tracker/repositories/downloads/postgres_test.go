package downloads

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Timi16/dehug-go/internal/common"
	"github.com/Timi16/dehug-go/internal/tracker/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestEnsureEntry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO entries .* ON CONFLICT \(name\) DO NOTHING;`).
		WithArgs("bert-tiny").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.EnsureEntry(context.Background(), "bert-tiny"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertEvent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO download_events .*`).
		WithArgs("bert-tiny", "sdk", "u1", ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertEvent(context.Background(), &models.DownloadEvent{
		ItemName:  "bert-tiny",
		Source:    "sdk",
		UserID:    "u1",
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBumpCounters_SDK(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE entries SET total_downloads = total_downloads \+ 1, download_count_sdk = download_count_sdk \+ 1 WHERE name = \$1;`).
		WithArgs("bert-tiny").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.BumpCounters(context.Background(), "bert-tiny", "sdk"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBumpCounters_UnknownSourceStillCountsTotal(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE entries SET total_downloads = total_downloads \+ 1 WHERE name = \$1;`).
		WithArgs("bert-tiny").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.BumpCounters(context.Background(), "bert-tiny", "cli"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBumpCounters_MissingEntry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE entries .*`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.BumpCounters(context.Background(), "ghost", "ui")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestSelectStats(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "download_count_sdk", "download_count_ui", "total_downloads"}).
		AddRow("bert-tiny", int64(5), int64(2), int64(7)).
		AddRow("imagenet-mini", int64(0), int64(3), int64(3))

	mock.ExpectQuery(`SELECT name, download_count_sdk, download_count_ui, total_downloads`).
		WillReturnRows(rows)

	stats, err := repo.SelectStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("want 2 entries, got %d", len(stats))
	}
	if got := stats["bert-tiny"]; got != (models.Stats{SDK: 5, UI: 2, Total: 7}) {
		t.Fatalf("unexpected stats for bert-tiny: %+v", got)
	}
}

func TestSelectStats_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT name,`).WillReturnError(errors.New("boom"))

	if _, err := repo.SelectStats(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
