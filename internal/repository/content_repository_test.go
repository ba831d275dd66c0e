package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/scrapeflow/internal/models"
)

func TestContentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO contents`).
		WithArgs(int64(4), "https://blog.test", "Title", "Hello World", "Hello World", "post", false, "", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	id, err := NewContentRepository(db).Create(context.Background(), &models.Content{
		ScheduleID:  4,
		OriginalURL: "https://blog.test",
		Title:       "Title",
		RawContent:  "Hello World",
		Summary:     "Hello World",
		PostText:    "post",
		CreatedAt:   created,
	})
	if err != nil || id != 21 {
		t.Fatalf("Create id=%d err=%v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestContentRepository_MarkPostedOnlyOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	at := time.Now().UTC()
	mock.ExpectExec(`UPDATE contents\s+SET posted = TRUE.*WHERE id = \$1 AND posted = FALSE`).
		WithArgs(int64(9), "urn:li:share:1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE contents\s+SET posted = TRUE.*WHERE id = \$1 AND posted = FALSE`).
		WithArgs(int64(9), "urn:li:share:2", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewContentRepository(db)
	if ok, err := repo.MarkPosted(context.Background(), 9, "urn:li:share:1", at); err != nil || !ok {
		t.Fatalf("first MarkPosted ok=%v err=%v", ok, err)
	}
	if ok, err := repo.MarkPosted(context.Background(), 9, "urn:li:share:2", at); err != nil || ok {
		t.Fatalf("second MarkPosted ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestContentRepository_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	latest := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\), MAX\(created_at\) FROM contents`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(3, latest))
	mock.ExpectQuery(`SELECT COUNT\(\*\), MAX\(created_at\) FROM contents`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(0, nil))

	repo := NewContentRepository(db)
	n, at, err := repo.Stats(context.Background(), 4)
	if err != nil || n != 3 || at == nil || !at.Equal(latest) {
		t.Fatalf("Stats(4) = %d %v %v", n, at, err)
	}
	n, at, err = repo.Stats(context.Background(), 5)
	if err != nil || n != 0 || at != nil {
		t.Fatalf("Stats(5) = %d %v %v", n, at, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestContentRepository_ListByUserIDNormalizesLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	cols := []string{"id", "schedule_id", "original_url", "title", "raw_content", "summary", "generated_post_text",
		"extraction_fallback", "snapshot_key", "posted", "external_post_id", "posted_at", "created_at"}
	now := time.Now().UTC()
	mock.ExpectQuery(`JOIN schedules s ON s.id = c.schedule_id`).
		WithArgs(int64(7), 10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 4, "https://blog.test", "T", "raw", "sum", "post", true, "", true, "urn:li:share:1", now, now))

	contents, err := NewContentRepository(db).ListByUserID(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(contents) != 1 || !contents[0].Posted || contents[0].PostedAt == nil || !contents[0].Fallback {
		t.Fatalf("unexpected contents %+v", contents)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
