package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/store"
)

// SummaryGenerator определяет интерфейс удаленного генератора AI-саммари.
// Второй результат false означает "недоступно": генерация отключена или
// вызов провалился. Ошибки наружу не выходят.
type SummaryGenerator interface {
	GenerateFilmSummary(ctx context.Context, filmTitle, reviews string) (string, bool)
}

// FilmService собирает представление фильма для отображения и выполняет
// воркфлоу агрегации отзывов: пересчет среднего рейтинга и AI-саммари.
type FilmService struct {
	films     store.FilmStore
	generator SummaryGenerator
	logger    *slog.Logger
}

// NewFilmService создает новый экземпляр FilmService.
func NewFilmService(films store.FilmStore, generator SummaryGenerator, logger *slog.Logger) *FilmService {
	return &FilmService{films: films, generator: generator, logger: logger}
}

// GetFilm возвращает фильм вместе с актерами каста в порядке хранения
// связей, либо store.ErrFilmNotFound.
func (s *FilmService) GetFilm(ctx context.Context, filmID int64) (*domain.Film, error) {
	return s.films.GetByID(ctx, filmID)
}

// UpdateFilmStats пересчитывает средний рейтинг и AI-саммари фильма по
// полному набору его отзывов и сохраняет результат.
//
// Пустой набор означает "нет отзывов": средний рейтинг становится ровно 0,
// саммари очищается. Для непустого набора средний считается точной
// десятичной дробью, а саммари заменяется только непустым результатом
// генератора: сбой генерации оставляет прежнее значение нетронутым.
func (s *FilmService) UpdateFilmStats(ctx context.Context, filmID int64, reviewData []domain.ReviewData) error {
	film, err := s.films.GetByID(ctx, filmID)
	if err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			s.logger.WarnContext(ctx, "Film not found for stats update", slog.Int64("filmID", filmID))
		}
		return err
	}

	if len(reviewData) == 0 {
		film.AverageRanking = decimal.Zero
		film.AiSummary = nil
		s.logger.InfoContext(ctx, "No reviews found for film", slog.Int64("filmID", filmID))
	} else {
		sum := decimal.Zero
		notes := make([]string, 0, len(reviewData))
		for _, review := range reviewData {
			sum = sum.Add(decimal.NewFromInt(int64(review.Ranking)))
			notes = append(notes, review.Note)
		}
		film.AverageRanking = sum.Div(decimal.NewFromInt(int64(len(reviewData))))

		combinedNotes := strings.Join(notes, " ")
		if aiSummary, ok := s.generator.GenerateFilmSummary(ctx, film.Title, combinedNotes); ok && aiSummary != "" {
			film.AiSummary = &aiSummary
			s.logger.InfoContext(ctx, "Generated AI summary for film", slog.Int64("filmID", filmID))
		}
	}

	if err := s.films.UpdateStats(ctx, film); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist film stats", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to persist film stats: %w", err)
	}

	s.logger.InfoContext(ctx, "Updated film statistics",
		slog.Int64("filmID", filmID),
		slog.String("averageRanking", film.AverageRanking.String()))
	return nil
}
