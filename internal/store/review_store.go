package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
)

// ListReviewsParams — параметры пагинации. Page нумеруется с нуля.
type ListReviewsParams struct {
	Page     int
	PageSize int
}

// ReviewStore определяет интерфейс для операций с данными отзывов.
// Оба списочных метода возвращают отзывы новыми вперед.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByFilm(ctx context.Context, filmID int64, params ListReviewsParams) ([]*domain.Review, int, error)
	ListAllByFilm(ctx context.Context, filmID int64) ([]*domain.Review, error)
}

// MockReviewStore для начальной разработки и тестов.
type MockReviewStore struct {
	mu            sync.RWMutex
	reviewsByFilm map[int64][]*domain.Review
	nextReviewID  int64
}

// NewMockReviewStore создает новый экземпляр MockReviewStore.
func NewMockReviewStore() *MockReviewStore {
	return &MockReviewStore{reviewsByFilm: make(map[int64][]*domain.Review)}
}

func (m *MockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextReviewID++
	review.ReviewID = m.nextReviewID
	review.SubmittedAt = time.Now().UTC()

	reviewCopy := *review // Сохраняем копию
	m.reviewsByFilm[review.FilmID] = append(m.reviewsByFilm[review.FilmID], &reviewCopy)
	return nil
}

// sortedCopy возвращает копии отзывов фильма новыми вперед.
// ReviewID используется как вторичный ключ для детерминизма при равных отметках времени.
func (m *MockReviewStore) sortedCopy(filmID int64) []*domain.Review {
	src := m.reviewsByFilm[filmID]
	reviews := make([]*domain.Review, len(src))
	for i, revPtr := range src {
		temp := *revPtr
		reviews[i] = &temp
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].SubmittedAt.Equal(reviews[j].SubmittedAt) {
			return reviews[i].ReviewID > reviews[j].ReviewID
		}
		return reviews[i].SubmittedAt.After(reviews[j].SubmittedAt)
	})
	return reviews
}

func (m *MockReviewStore) ListByFilm(ctx context.Context, filmID int64, params ListReviewsParams) ([]*domain.Review, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reviews := m.sortedCopy(filmID)
	totalCount := len(reviews)

	start := params.Page * params.PageSize
	end := start + params.PageSize
	if start < 0 {
		start = 0
	}
	if start >= totalCount {
		return []*domain.Review{}, totalCount, nil // Запрошенная страница за пределами данных
	}
	if end > totalCount {
		end = totalCount
	}
	return reviews[start:end], totalCount, nil
}

func (m *MockReviewStore) ListAllByFilm(ctx context.Context, filmID int64) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedCopy(filmID), nil
}
