package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/store"
)

// PageSize — фиксированный размер страницы отзывов.
const PageSize = 10

// ReviewService реализует листинг и отправку отзывов. Агрегацию он не
// запускает: граница HTTP выполняет явную двухшаговую последовательность
// "создать отзыв, затем переагрегировать".
type ReviewService struct {
	films   store.FilmStore
	reviews store.ReviewStore
	logger  *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(films store.FilmStore, reviews store.ReviewStore, logger *slog.Logger) *ReviewService {
	return &ReviewService{films: films, reviews: reviews, logger: logger}
}

// ListReviews возвращает страницу отзывов фильма новыми вперед плюс
// метаданные пагинации. Page нумеруется с нуля и возвращается как запрошен,
// включая страницы за последней: это валидный ответ с пустым списком.
func (s *ReviewService) ListReviews(ctx context.Context, filmID int64, page int) (*domain.ReviewsList, error) {
	exists, err := s.films.Exists(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to check film existence: %w", err)
	}
	if !exists {
		return nil, store.ErrFilmNotFound
	}

	reviews, totalCount, err := s.reviews.ListByFilm(ctx, filmID, store.ListReviewsParams{
		Page:     page,
		PageSize: PageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := (totalCount + PageSize - 1) / PageSize

	return &domain.ReviewsList{
		Reviews:    reviews,
		TotalCount: totalCount,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// ReviewData возвращает полный набор пар (текст, оценка) отзывов фильма
// новыми вперед. Используется исключительно как вход воркфлоу агрегации.
// Для неизвестного фильма возвращается пустой список, не ошибка.
func (s *ReviewService) ReviewData(ctx context.Context, filmID int64) ([]domain.ReviewData, error) {
	exists, err := s.films.Exists(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to check film existence: %w", err)
	}
	if !exists {
		return []domain.ReviewData{}, nil
	}

	reviews, err := s.reviews.ListAllByFilm(ctx, filmID)
	if err != nil {
		return nil, err
	}

	data := make([]domain.ReviewData, 0, len(reviews))
	for _, review := range reviews {
		data = append(data, domain.ReviewData{Note: review.Note, Ranking: review.Ranking})
	}
	return data, nil
}

// SubmitReview валидирует и записывает один новый отзыв. Имя автора
// обрезается; пустое после обрезки заменяется на "Anonymous". Отметка
// времени назначается хранилищем в момент создания, в UTC.
func (s *ReviewService) SubmitReview(ctx context.Context, filmID int64, req domain.CreateReviewRequest) (*domain.Review, error) {
	exists, err := s.films.Exists(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to check film existence: %w", err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "Attempt to create review for non-existent film", slog.Int64("filmID", filmID))
		return nil, store.ErrFilmNotFound
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = domain.AnonymousDisplayName
	}

	review := &domain.Review{
		FilmID:      filmID,
		Note:        req.Note,
		Ranking:     req.Ranking,
		DisplayName: displayName,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create review in store", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Review created successfully",
		slog.Int64("reviewID", review.ReviewID), slog.Int64("filmID", filmID))
	return review, nil
}
