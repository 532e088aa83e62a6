package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
)

// SQLReviewStore реализует ReviewStore поверх sqlx.
type SQLReviewStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLReviewStore создает новый экземпляр SQLReviewStore.
func NewSQLReviewStore(db *sqlx.DB, logger *slog.Logger) (*SQLReviewStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil for SQLReviewStore")
	}
	return &SQLReviewStore{db: db, logger: logger}, nil
}

// Create создает новый отзыв. Отметка времени назначается здесь, в UTC,
// независимо от значения, пришедшего от вызывающего кода.
func (s *SQLReviewStore) Create(ctx context.Context, review *domain.Review) error {
	review.SubmittedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "Executing Create review query",
		slog.Int64("filmID", review.FilmID),
		slog.String("displayName", review.DisplayName))

	if s.db.DriverName() == "postgres" {
		query := s.db.Rebind(`INSERT INTO reviews (film_id, note, ranking, display_name, submitted_at)
              VALUES (?, ?, ?, ?, ?) RETURNING review_id`)
		err := s.db.QueryRowContext(ctx, query,
			review.FilmID, review.Note, review.Ranking, review.DisplayName, review.SubmittedAt,
		).Scan(&review.ReviewID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
			return fmt.Errorf("failed to create review: %w", err)
		}
	} else {
		query := `INSERT INTO reviews (film_id, note, ranking, display_name, submitted_at)
              VALUES (?, ?, ?, ?, ?)`
		result, err := s.db.ExecContext(ctx, query,
			review.FilmID, review.Note, review.Ranking, review.DisplayName, review.SubmittedAt,
		)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
			return fmt.Errorf("failed to create review: %w", err)
		}
		reviewID, err := result.LastInsertId()
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to get generated review ID", slog.String("error", err.Error()))
			return fmt.Errorf("failed to get generated review ID: %w", err)
		}
		review.ReviewID = reviewID
	}

	s.logger.InfoContext(ctx, "Review created successfully in DB",
		slog.Int64("reviewID", review.ReviewID), slog.Int64("filmID", review.FilmID))
	return nil
}

// ListByFilm возвращает страницу отзывов фильма новыми вперед плюс общее количество.
// Page нумеруется с нуля; страница за последней возвращает пустой слайс, не ошибку.
func (s *SQLReviewStore) ListByFilm(ctx context.Context, filmID int64, params ListReviewsParams) ([]*domain.Review, int, error) {
	countQuery := s.db.Rebind(`SELECT COUNT(*) FROM reviews WHERE film_id = ?`)

	var totalCount int
	s.logger.DebugContext(ctx, "Executing ListByFilm count query", slog.Int64("filmID", filmID))
	if err := s.db.GetContext(ctx, &totalCount, countQuery, filmID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count reviews by filmID in DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count reviews by filmID: %w", err)
	}

	if totalCount == 0 {
		return []*domain.Review{}, 0, nil
	}

	selectQuery := s.db.Rebind(fmt.Sprintf(`SELECT review_id, film_id, note, ranking, display_name, submitted_at
              FROM reviews WHERE film_id = ?
              ORDER BY submitted_at DESC, review_id DESC
              LIMIT %d OFFSET %d`, params.PageSize, params.Page*params.PageSize))

	var reviews []*domain.Review
	s.logger.DebugContext(ctx, "Executing ListByFilm select query", slog.Int64("filmID", filmID), slog.Int("page", params.Page))
	if err := s.db.SelectContext(ctx, &reviews, selectQuery, filmID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list reviews by filmID from DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list reviews by filmID: %w", err)
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, totalCount, nil
}

// ListAllByFilm возвращает все отзывы фильма новыми вперед, без пагинации.
// Используется исключительно для передачи полного набора воркфлоу агрегации.
func (s *SQLReviewStore) ListAllByFilm(ctx context.Context, filmID int64) ([]*domain.Review, error) {
	query := s.db.Rebind(`SELECT review_id, film_id, note, ranking, display_name, submitted_at
              FROM reviews WHERE film_id = ?
              ORDER BY submitted_at DESC, review_id DESC`)

	var reviews []*domain.Review
	s.logger.DebugContext(ctx, "Executing ListAllByFilm query", slog.Int64("filmID", filmID))
	if err := s.db.SelectContext(ctx, &reviews, query, filmID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list all reviews by filmID from DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list all reviews by filmID: %w", err)
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}
