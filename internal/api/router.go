package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the movie endpoints under the /api prefix. Each route is
// registered with and without a trailing slash; pagination links use the
// slash form.
func NewRouter(handler *MovieHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogging(logger))

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	moviesRouter := apiRouter.PathPrefix("/movies").Subrouter()
	moviesRouter.HandleFunc("", handler.ListMovies).Methods(http.MethodGet)
	moviesRouter.HandleFunc("/", handler.ListMovies).Methods(http.MethodGet)
	moviesRouter.HandleFunc("", handler.CreateMovie).Methods(http.MethodPost)
	moviesRouter.HandleFunc("/", handler.CreateMovie).Methods(http.MethodPost)
	moviesRouter.HandleFunc("/{movieId:[0-9]+}", handler.GetMovieByID).Methods(http.MethodGet)
	moviesRouter.HandleFunc("/{movieId:[0-9]+}/", handler.GetMovieByID).Methods(http.MethodGet)
	moviesRouter.HandleFunc("/{movieId:[0-9]+}", handler.UpdateMovie).Methods(http.MethodPatch)
	moviesRouter.HandleFunc("/{movieId:[0-9]+}/", handler.UpdateMovie).Methods(http.MethodPatch)
	moviesRouter.HandleFunc("/{movieId:[0-9]+}", handler.DeleteMovie).Methods(http.MethodDelete)
	moviesRouter.HandleFunc("/{movieId:[0-9]+}/", handler.DeleteMovie).Methods(http.MethodDelete)

	return router
}
