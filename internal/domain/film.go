package domain

import (
	"github.com/shopspring/decimal"
)

// Film представляет основную доменную модель фильма.
// AverageRanking и AiSummary изменяются только воркфлоу агрегации отзывов.
type Film struct {
	FilmID         int64           `json:"filmId" db:"film_id"`
	Title          string          `json:"title" db:"title"`
	PosterURL      string          `json:"posterUrl" db:"poster_url"`
	PlotSummary    string          `json:"plotSummary" db:"plot_summary"`
	AverageRanking decimal.Decimal `json:"averageRanking" db:"average_ranking"`
	AiSummary      *string         `json:"aiSummary,omitempty" db:"ai_summary"`

	// Cast заполняется из связей cast_members в порядке их хранения.
	Cast []Actor `json:"castMembers" db:"-"`
}

// Actor представляет актера, на которого ссылаются записи cast_members.
type Actor struct {
	ActorID int64  `json:"actorId" db:"actor_id"`
	Name    string `json:"name" db:"name"`
}

// CastMember связывает один фильм с одним актером. Записи создаются
// только сидом миграций, воркфлоу редактирования каста не существует.
type CastMember struct {
	CastMemberID int64 `json:"castMemberId" db:"cast_member_id"`
	FilmID       int64 `json:"filmId" db:"film_id"`
	ActorID      int64 `json:"actorId" db:"actor_id"`
}
