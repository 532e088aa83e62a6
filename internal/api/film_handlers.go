package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/service"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/store"
)

type FilmHandler struct {
	films  *service.FilmService
	logger *slog.Logger
}

func NewFilmHandler(films *service.FilmService, logger *slog.Logger) *FilmHandler {
	return &FilmHandler{films: films, logger: logger}
}

// parseFilmID читает {filmId} из пути. Маршруты ограничены числовым
// паттерном, так что ошибка парсинга здесь означает переполнение.
func parseFilmID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["filmId"], 10, 64)
}

// GetFilm обрабатывает GET /api/films/{filmId}: детали фильма вместе с кастом.
func (h *FilmHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, err := parseFilmID(r)
	if err != nil {
		respondError(w, r, h.logger, http.StatusNotFound, "Film not found")
		return
	}

	film, err := h.films.GetFilm(ctx, filmID)
	if err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			respondError(w, r, h.logger, http.StatusNotFound, fmt.Sprintf("Film with ID %d was not found.", filmID))
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get film", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusInternalServerError, "Failed to retrieve film")
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, film)
}
