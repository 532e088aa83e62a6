package domain

import (
	"time"
)

// AnonymousDisplayName подставляется, когда имя автора отзыва
// после обрезки пробелов оказывается пустым.
const AnonymousDisplayName = "Anonymous"

// Review представляет один пользовательский отзыв на фильм.
// Отзывы создаются воркфлоу отправки и никогда не обновляются и не удаляются.
type Review struct {
	ReviewID    int64     `json:"reviewId" db:"review_id"`
	FilmID      int64     `json:"-" db:"film_id"`
	Note        string    `json:"note" db:"note"`
	Ranking     int       `json:"ranking" db:"ranking"`
	DisplayName string    `json:"displayName" db:"display_name"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}

// CreateReviewRequest определяет тело запроса для создания нового отзыва.
// SubmittedAt клиентом не передается: время назначает сервер.
type CreateReviewRequest struct {
	Note        string `json:"note" validate:"required"`
	Ranking     int    `json:"ranking" validate:"required,gte=1,lte=10"`
	DisplayName string `json:"displayName,omitempty" validate:"omitempty,max=100"`
}

// ReviewsList — страница отзывов фильма плюс метаданные пагинации.
// Page возвращается как запрошен, включая значения за последней страницей.
type ReviewsList struct {
	Reviews    []*Review `json:"reviews"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// ReviewData — пара (текст, оценка), которой воркфлоу агрегации
// кормится полным набором отзывов фильма.
type ReviewData struct {
	Note    string `db:"note"`
	Ranking int    `db:"ranking"`
}
