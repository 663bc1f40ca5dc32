package store

import (
	"context"
	"errors"

	"movie-catalog/internal/domain"
)

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyExists = errors.New("movie with this name and release date already exists")
)

// ListParams selects one page of the catalog. Page is 1-based.
type ListParams struct {
	Page    int
	PerPage int
}

// Offset is the number of rows skipped before the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// MovieStore is the persistence contract of the movie catalog. Write
// operations run inside a single transaction: committed on success, rolled
// back on any error.
type MovieStore interface {
	// List returns one page of movies ordered by descending id, plus the
	// total number of movies in the catalog. Association fields are not
	// loaded.
	List(ctx context.Context, params ListParams) ([]*domain.Movie, int, error)

	// Create persists a new movie, resolving the country code and every
	// genre/actor/language name through get-or-create lookups. Returns the
	// fully loaded movie, or ErrMovieAlreadyExists when a movie with the
	// same (name, date) pair exists.
	Create(ctx context.Context, input *domain.MovieInput) (*domain.Movie, error)

	// GetByID loads a movie together with its country and all three
	// association sets. Returns ErrMovieNotFound when absent.
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)

	// Update applies a partial update of scalar fields. Returns
	// ErrMovieNotFound when the movie is absent.
	Update(ctx context.Context, id int64, upd *domain.MovieUpdate) error

	// Delete removes a movie and its association rows. Reference rows are
	// kept. Returns ErrMovieNotFound when the movie is absent.
	Delete(ctx context.Context, id int64) error
}
