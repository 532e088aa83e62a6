package store

import (
	"context"
	"errors"
	"sync"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
)

// Кастомные ошибки
var (
	ErrFilmNotFound   = errors.New("film not found")
	ErrReviewNotFound = errors.New("review not found")
)

// FilmStore определяет интерфейс для операций с данными фильмов.
// GetByID возвращает фильм вместе с актерами из связей cast_members
// в порядке их хранения.
type FilmStore interface {
	GetByID(ctx context.Context, filmID int64) (*domain.Film, error)
	Exists(ctx context.Context, filmID int64) (bool, error)
	UpdateStats(ctx context.Context, film *domain.Film) error
}

// MockFilmStore для начальной разработки и тестов.
type MockFilmStore struct {
	mu    sync.RWMutex
	films map[int64]*domain.Film

	// UpdateStatsCalls считает фактические записи, чтобы тесты могли
	// проверить отсутствие записей для несуществующих фильмов.
	UpdateStatsCalls int
}

// NewMockFilmStore создает новый экземпляр MockFilmStore.
func NewMockFilmStore() *MockFilmStore {
	return &MockFilmStore{films: make(map[int64]*domain.Film)}
}

// Seed кладет фильм в мок, минуя воркфлоу (аналог сид-данных миграций).
func (m *MockFilmStore) Seed(film *domain.Film) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filmCopy := *film
	m.films[film.FilmID] = &filmCopy
}

func (m *MockFilmStore) GetByID(ctx context.Context, filmID int64) (*domain.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	film, ok := m.films[filmID]
	if !ok {
		return nil, ErrFilmNotFound
	}
	filmCopy := *film // Возвращаем копию
	return &filmCopy, nil
}

func (m *MockFilmStore) Exists(ctx context.Context, filmID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.films[filmID]
	return ok, nil
}

func (m *MockFilmStore) UpdateStats(ctx context.Context, film *domain.Film) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.films[film.FilmID]
	if !ok {
		return ErrFilmNotFound
	}
	stored.AverageRanking = film.AverageRanking
	stored.AiSummary = film.AiSummary
	m.UpdateStatsCalls++
	return nil
}
