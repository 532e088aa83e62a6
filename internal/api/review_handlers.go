package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/domain"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/service"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/store"
)

type ReviewHandler struct {
	reviews   *service.ReviewService
	films     *service.FilmService
	logger    *slog.Logger
	validator *validator.Validate
}

func NewReviewHandler(reviews *service.ReviewService, films *service.FilmService, logger *slog.Logger, validate *validator.Validate) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		films:     films,
		logger:    logger,
		validator: validate,
	}
}

// ListReviews обрабатывает GET /api/films/{filmId}/reviews?page={n}.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, err := parseFilmID(r)
	if err != nil {
		respondError(w, r, h.logger, http.StatusNotFound, "Film not found")
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	list, err := h.reviews.ListReviews(ctx, filmID, page)
	if err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			respondError(w, r, h.logger, http.StatusNotFound, fmt.Sprintf("Film with ID %d was not found.", filmID))
			return
		}
		h.logger.ErrorContext(ctx, "Failed to list reviews", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, list)
}

// SubmitReview обрабатывает POST /api/films/{filmId}/reviews.
//
// Последовательность намеренно двухшаговая и явная: создать отзыв, затем
// перечитать полный набор отзывов и вызвать агрегацию. Сбой агрегации после
// успешного создания логируется и не меняет ответ 201.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, err := parseFilmID(r)
	if err != nil {
		respondError(w, r, h.logger, http.StatusNotFound, "Film not found")
		return
	}

	var req domain.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode request body for review", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		h.logger.WarnContext(ctx, "Review request validation failed", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		respondError(w, r, h.logger, http.StatusBadRequest, "Validation failed: note must not be blank")
		return
	}

	if _, err := h.reviews.SubmitReview(ctx, filmID, req); err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			respondError(w, r, h.logger, http.StatusNotFound, fmt.Sprintf("Film with ID %d was not found.", filmID))
			return
		}
		h.logger.ErrorContext(ctx, "Failed to submit review", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusInternalServerError, "Failed to create review")
		return
	}

	// Шаг 2: переагрегация по полному набору отзывов фильма.
	reviewData, err := h.reviews.ReviewData(ctx, filmID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch review data for aggregation", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
	} else if err := h.films.UpdateFilmStats(ctx, filmID, reviewData); err != nil {
		h.logger.ErrorContext(ctx, "Failed to update film stats after review submission", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
	}

	w.Header().Set("Location", fmt.Sprintf("/api/films/%d/reviews", filmID))
	respondJSON(w, r, h.logger, http.StatusCreated, struct{}{})
}
