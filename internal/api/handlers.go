package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/store"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 20
)

// MovieHandler holds the dependencies of the movie HTTP endpoints.
type MovieHandler struct {
	store     store.MovieStore
	logger    *slog.Logger
	validator *validator.Validate
}

func NewMovieHandler(s store.MovieStore, l *slog.Logger, v *validator.Validate) *MovieHandler {
	return &MovieHandler{
		store:     s,
		logger:    l,
		validator: v,
	}
}

func (h *MovieHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to encode JSON response",
				slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *MovieHandler) respondError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	h.respondJSON(w, r, status, map[string]string{"detail": detail})
}

// Health reports process liveness.
func (h *MovieHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// ListMovies returns one page of the catalog, newest first, with pagination
// links and totals.
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page := defaultPage
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, r, http.StatusBadRequest, "page must be an integer greater than or equal to 1")
			return
		}
		page = parsed
	}
	perPage := defaultPerPage
	if raw := query.Get("per_page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPerPage {
			h.respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("per_page must be an integer between 1 and %d", maxPerPage))
			return
		}
		perPage = parsed
	}

	movies, totalItems, err := h.store.List(ctx, store.ListParams{Page: page, PerPage: perPage})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list movies", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Failed to retrieve movies")
		return
	}

	totalPages := (totalItems + perPage - 1) / perPage
	if totalItems == 0 || page > totalPages || len(movies) == 0 {
		h.respondError(w, r, http.StatusNotFound, "No movies found.")
		return
	}

	response := domain.MovieListResponse{
		Movies:     make([]domain.MovieListItem, 0, len(movies)),
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
	for _, movie := range movies {
		response.Movies = append(response.Movies, domain.NewMovieListItem(movie))
	}
	if page > 1 {
		prev := pageLink(page-1, perPage)
		response.PrevPage = &prev
	}
	if page < totalPages {
		next := pageLink(page+1, perPage)
		response.NextPage = &next
	}

	h.respondJSON(w, r, http.StatusOK, response)
}

// CreateMovie validates the request, resolves its references through the
// store's get-or-create lookups and returns the expanded detail projection.
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create movie request", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, domain.ValidationMessage(err))
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "date must be a valid date in YYYY-MM-DD format")
		return
	}

	input := &domain.MovieInput{
		Name:        req.Name,
		Date:        date,
		Score:       req.Score,
		Overview:    req.Overview,
		Status:      domain.MovieStatus(req.Status),
		Budget:      req.Budget,
		Revenue:     req.Revenue,
		CountryCode: req.Country,
		Genres:      req.Genres,
		Actors:      req.Actors,
		Languages:   req.Languages,
	}

	movie, err := h.store.Create(ctx, input)
	if err != nil {
		if errors.Is(err, store.ErrMovieAlreadyExists) {
			h.respondError(w, r, http.StatusConflict, fmt.Sprintf(
				"A movie with the name '%s' and release date '%s' already exists.",
				req.Name, date.Format(domain.DateLayout)))
			return
		}
		// The cause stays in the log; the client gets the uniform message.
		h.logger.ErrorContext(ctx, "failed to create movie",
			slog.String("name", req.Name), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid input data.")
		return
	}

	h.respondJSON(w, r, http.StatusCreated, domain.NewMovieDetail(movie))
}

// GetMovieByID returns the expanded detail projection of one movie.
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get movie",
			slog.Int64("movie_id", id), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Error finding movie")
		return
	}

	h.respondJSON(w, r, http.StatusOK, domain.NewMovieDetail(movie))
}

// UpdateMovie applies a partial update of scalar fields. Association fields
// are not re-resolved on update; payloads touching them are rejected the same
// way any other invalid input is.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update movie request", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, domain.ValidationMessage(err))
		return
	}

	if _, err := h.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
			return
		}
		h.logger.ErrorContext(ctx, "failed to load movie for update",
			slog.Int64("movie_id", id), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Error finding movie")
		return
	}

	if req.HasAssociations() {
		h.logger.WarnContext(ctx, "update rejected: association fields cannot be updated",
			slog.Int64("movie_id", id))
		h.respondError(w, r, http.StatusBadRequest, "Invalid input data.")
		return
	}

	upd := &domain.MovieUpdate{
		Name:     req.Name,
		Score:    req.Score,
		Overview: req.Overview,
		Budget:   req.Budget,
		Revenue:  req.Revenue,
	}
	if req.Date != nil {
		date, err := time.Parse(domain.DateLayout, *req.Date)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "date must be a valid date in YYYY-MM-DD format")
			return
		}
		upd.Date = &date
	}
	if req.Status != nil {
		status := domain.MovieStatus(*req.Status)
		upd.Status = &status
	}

	if err := h.store.Update(ctx, id, upd); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update movie",
			slog.Int64("movie_id", id), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid input data.")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]string{"detail": "Movie updated successfully."})
}

// DeleteMovie removes a movie; association rows go with it, reference rows
// stay.
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete movie",
			slog.Int64("movie_id", id), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Error deleting movie")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// movieID parses the path parameter. The route pattern restricts it to
// digits, so a parse failure means the movie cannot exist.
func (h *MovieHandler) movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["movieId"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondError(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
		return 0, false
	}
	return id, true
}

func pageLink(page, perPage int) string {
	return fmt.Sprintf("/api/movies/?page=%d&per_page=%d", page, perPage)
}
