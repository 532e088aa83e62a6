package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
)

// SQLFilmStore реализует FilmStore поверх sqlx. Запросы пишутся с
// плейсхолдерами "?" и перепривязываются под диалект (SQLite или PostgreSQL).
type SQLFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLFilmStore создает новый экземпляр SQLFilmStore.
func NewSQLFilmStore(db *sqlx.DB, logger *slog.Logger) (*SQLFilmStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil for SQLFilmStore")
	}
	return &SQLFilmStore{db: db, logger: logger}, nil
}

// GetByID находит фильм по ID вместе с актерами его каста.
// Актеры возвращаются в порядке записей cast_members, без пересортировки.
func (s *SQLFilmStore) GetByID(ctx context.Context, filmID int64) (*domain.Film, error) {
	filmQuery := s.db.Rebind(`SELECT film_id, title, poster_url, plot_summary, average_ranking, ai_summary
              FROM films WHERE film_id = ?`)
	var film domain.Film

	s.logger.DebugContext(ctx, "Executing GetFilmByID query", slog.Int64("filmID", filmID))
	err := s.db.GetContext(ctx, &film, filmQuery, filmID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", filmID))
			return nil, ErrFilmNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get film by ID from DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}

	castQuery := s.db.Rebind(`SELECT a.actor_id, a.name
              FROM cast_members cm
              JOIN actors a ON a.actor_id = cm.actor_id
              WHERE cm.film_id = ?
              ORDER BY cm.cast_member_id`)
	if err := s.db.SelectContext(ctx, &film.Cast, castQuery, filmID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load cast members for film", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load cast members: %w", err)
	}

	return &film, nil
}

// Exists проверяет наличие фильма без загрузки каста.
func (s *SQLFilmStore) Exists(ctx context.Context, filmID int64) (bool, error) {
	query := s.db.Rebind(`SELECT COUNT(*) FROM films WHERE film_id = ?`)

	var count int
	if err := s.db.GetContext(ctx, &count, query, filmID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check film existence in DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check film existence: %w", err)
	}
	return count > 0, nil
}

// UpdateStats записывает агрегированные поля фильма: средний рейтинг и AI-саммари.
// Остальные поля фильма этим сервисом никогда не изменяются.
func (s *SQLFilmStore) UpdateStats(ctx context.Context, film *domain.Film) error {
	query := s.db.Rebind(`UPDATE films SET average_ranking = ?, ai_summary = ? WHERE film_id = ?`)

	s.logger.DebugContext(ctx, "Executing UpdateStats query",
		slog.Int64("filmID", film.FilmID),
		slog.String("averageRanking", film.AverageRanking.String()))

	result, err := s.db.ExecContext(ctx, query, film.AverageRanking, film.AiSummary, film.FilmID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update film stats in DB", slog.Int64("filmID", film.FilmID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update film stats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get rows affected after stats update", slog.Int64("filmID", film.FilmID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to check film stats update result: %w", err)
	}
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No film found to update stats", slog.Int64("filmID", film.FilmID))
		return ErrFilmNotFound
	}

	s.logger.InfoContext(ctx, "Film stats updated successfully in DB", slog.Int64("filmID", film.FilmID))
	return nil
}
