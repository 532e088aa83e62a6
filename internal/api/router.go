package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter создает и настраивает маршрутизатор приложения.
// Числовой паттерн {filmId} отправляет нечисловые идентификаторы в 404.
func NewRouter(filmHandler *FilmHandler, reviewHandler *ReviewHandler, webDir string, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware(logger))

	apiRouter := router.PathPrefix("/api").Subrouter()

	filmsRouter := apiRouter.PathPrefix("/films").Subrouter()
	filmsRouter.HandleFunc("/{filmId:[0-9]+}", filmHandler.GetFilm).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{filmId:[0-9]+}/reviews", reviewHandler.ListReviews).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{filmId:[0-9]+}/reviews", reviewHandler.SubmitReview).Methods(http.MethodPost)

	// Одностраничный фронтенд
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(webDir)))

	return router
}
