package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
)

const testSchema = `
CREATE TABLE films (
    film_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    poster_url TEXT NOT NULL,
    plot_summary TEXT NOT NULL,
    average_ranking NUMERIC NOT NULL DEFAULT 0,
    ai_summary TEXT
);
CREATE TABLE actors (
    actor_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);
CREATE TABLE cast_members (
    cast_member_id INTEGER PRIMARY KEY AUTOINCREMENT,
    film_id INTEGER NOT NULL REFERENCES films (film_id),
    actor_id INTEGER NOT NULL REFERENCES actors (actor_id)
);
CREATE TABLE reviews (
    review_id INTEGER PRIMARY KEY AUTOINCREMENT,
    film_id INTEGER NOT NULL REFERENCES films (film_id),
    note TEXT NOT NULL,
    ranking INTEGER NOT NULL,
    display_name TEXT NOT NULL DEFAULT 'Anonymous',
    submitted_at TIMESTAMP NOT NULL
);`

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	mustExec(t, db, `INSERT INTO films (film_id, title, poster_url, plot_summary, average_ranking)
		VALUES (1, 'That was then this is now', 'https://example.com/poster.jpg', 'Two friends drift apart.', 0)`)
	mustExec(t, db, `INSERT INTO actors (actor_id, name) VALUES (1, 'Emilio Estevez'), (2, 'Craig Sheffer')`)
	mustExec(t, db, `INSERT INTO cast_members (cast_member_id, film_id, actor_id) VALUES (1, 1, 1), (2, 1, 2)`)

	return db
}

func mustExec(t *testing.T, db *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("Failed to execute %q: %v", query, err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSQLFilmStore_GetByID(t *testing.T) {
	db := setupTestDB(t)
	films, err := NewSQLFilmStore(db, discardLogger())
	if err != nil {
		t.Fatalf("Failed to create film store: %v", err)
	}

	film, err := films.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if film.Title != "That was then this is now" {
		t.Errorf("Unexpected title: %q", film.Title)
	}
	if !film.AverageRanking.Equal(decimal.Zero) {
		t.Errorf("Expected average 0 for seeded film, got %s", film.AverageRanking)
	}
	if film.AiSummary != nil {
		t.Errorf("Expected nil AI summary for seeded film, got %q", *film.AiSummary)
	}
	if len(film.Cast) != 2 || film.Cast[0].Name != "Emilio Estevez" || film.Cast[1].Name != "Craig Sheffer" {
		t.Errorf("Expected cast in cast_member storage order, got %+v", film.Cast)
	}
}

func TestSQLFilmStore_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	films, _ := NewSQLFilmStore(db, discardLogger())

	if _, err := films.GetByID(context.Background(), 42); !errors.Is(err, ErrFilmNotFound) {
		t.Errorf("Expected ErrFilmNotFound, got %v", err)
	}
}

func TestSQLFilmStore_Exists(t *testing.T) {
	db := setupTestDB(t)
	films, _ := NewSQLFilmStore(db, discardLogger())

	exists, err := films.Exists(context.Background(), 1)
	if err != nil || !exists {
		t.Errorf("Expected film 1 to exist, got (%t, %v)", exists, err)
	}

	exists, err = films.Exists(context.Background(), 42)
	if err != nil || exists {
		t.Errorf("Expected film 42 to not exist, got (%t, %v)", exists, err)
	}
}

func TestSQLFilmStore_UpdateStats(t *testing.T) {
	db := setupTestDB(t)
	films, _ := NewSQLFilmStore(db, discardLogger())

	summary := "Reviewers are split."
	average := decimal.NewFromInt(23).Div(decimal.NewFromInt(3))
	err := films.UpdateStats(context.Background(), &domain.Film{
		FilmID:         1,
		AverageRanking: average,
		AiSummary:      &summary,
	})
	if err != nil {
		t.Fatalf("UpdateStats failed: %v", err)
	}

	film, err := films.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !film.AverageRanking.Equal(average) {
		t.Errorf("Expected average %s round-tripped exactly, got %s", average, film.AverageRanking)
	}
	if film.AiSummary == nil || *film.AiSummary != summary {
		t.Errorf("Expected stored AI summary, got %v", film.AiSummary)
	}

	// Очистка саммари при пустом наборе отзывов
	err = films.UpdateStats(context.Background(), &domain.Film{FilmID: 1, AverageRanking: decimal.Zero})
	if err != nil {
		t.Fatalf("UpdateStats failed: %v", err)
	}
	film, _ = films.GetByID(context.Background(), 1)
	if film.AiSummary != nil {
		t.Errorf("Expected cleared AI summary, got %q", *film.AiSummary)
	}
}

func TestSQLFilmStore_UpdateStats_NotFound(t *testing.T) {
	db := setupTestDB(t)
	films, _ := NewSQLFilmStore(db, discardLogger())

	err := films.UpdateStats(context.Background(), &domain.Film{FilmID: 42, AverageRanking: decimal.Zero})
	if !errors.Is(err, ErrFilmNotFound) {
		t.Errorf("Expected ErrFilmNotFound, got %v", err)
	}
}

func TestSQLReviewStore_Create(t *testing.T) {
	db := setupTestDB(t)
	reviews, err := NewSQLReviewStore(db, discardLogger())
	if err != nil {
		t.Fatalf("Failed to create review store: %v", err)
	}

	review := &domain.Review{FilmID: 1, Note: "Great", Ranking: 10, DisplayName: "Bob"}
	if err := reviews.Create(context.Background(), review); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if review.ReviewID == 0 {
		t.Error("Expected generated review ID")
	}
	if review.SubmittedAt.IsZero() || review.SubmittedAt.Location() != time.UTC {
		t.Errorf("Expected server-assigned UTC timestamp, got %v", review.SubmittedAt)
	}

	all, err := reviews.ListAllByFilm(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListAllByFilm failed: %v", err)
	}
	if len(all) != 1 || all[0].Note != "Great" || all[0].DisplayName != "Bob" {
		t.Errorf("Unexpected stored review: %+v", all)
	}
}

func TestSQLReviewStore_ListByFilm_Pagination(t *testing.T) {
	db := setupTestDB(t)
	reviews, _ := NewSQLReviewStore(db, discardLogger())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		mustExec(t, db, `INSERT INTO reviews (film_id, note, ranking, display_name, submitted_at) VALUES (1, ?, ?, 'Anonymous', ?)`,
			fmt.Sprintf("Review %d", i+1), i%10+1, base.Add(time.Duration(i)*time.Minute))
	}

	page, totalCount, err := reviews.ListByFilm(context.Background(), 1, ListReviewsParams{Page: 0, PageSize: 10})
	if err != nil {
		t.Fatalf("ListByFilm failed: %v", err)
	}
	if totalCount != 25 || len(page) != 10 {
		t.Fatalf("Expected 10 of 25 reviews, got %d of %d", len(page), totalCount)
	}
	if page[0].Note != "Review 25" {
		t.Errorf("Expected newest review first, got %q", page[0].Note)
	}

	page, totalCount, err = reviews.ListByFilm(context.Background(), 1, ListReviewsParams{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListByFilm failed: %v", err)
	}
	if totalCount != 25 || len(page) != 5 {
		t.Errorf("Expected 5 reviews on last page, got %d of %d", len(page), totalCount)
	}
	if len(page) > 0 && page[len(page)-1].Note != "Review 1" {
		t.Errorf("Expected oldest review last on last page, got %q", page[len(page)-1].Note)
	}

	page, totalCount, err = reviews.ListByFilm(context.Background(), 1, ListReviewsParams{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("ListByFilm failed: %v", err)
	}
	if totalCount != 25 || len(page) != 0 {
		t.Errorf("Expected empty page beyond the end with accurate total, got %d of %d", len(page), totalCount)
	}
}

func TestSQLReviewStore_ListByFilm_Empty(t *testing.T) {
	db := setupTestDB(t)
	reviews, _ := NewSQLReviewStore(db, discardLogger())

	page, totalCount, err := reviews.ListByFilm(context.Background(), 1, ListReviewsParams{Page: 0, PageSize: 10})
	if err != nil {
		t.Fatalf("ListByFilm failed: %v", err)
	}
	if totalCount != 0 || len(page) != 0 {
		t.Errorf("Expected empty result for film without reviews, got %d of %d", len(page), totalCount)
	}
}
