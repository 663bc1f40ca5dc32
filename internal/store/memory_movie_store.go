package store

import (
	"context"
	"sort"
	"sync"

	"movie-catalog/internal/domain"
)

// MemoryMovieStore is an in-memory MovieStore with the same get-or-create
// semantics as the PostgreSQL implementation. It backs handler tests and
// local runs without a database.
type MemoryMovieStore struct {
	mu        sync.RWMutex
	movies    map[int64]*domain.Movie
	countries map[string]*domain.Country
	genres    map[string]*domain.Genre
	actors    map[string]*domain.Actor
	languages map[string]*domain.Language
	nextMovie int64
	nextRef   int64
}

func NewMemoryMovieStore() *MemoryMovieStore {
	return &MemoryMovieStore{
		movies:    make(map[int64]*domain.Movie),
		countries: make(map[string]*domain.Country),
		genres:    make(map[string]*domain.Genre),
		actors:    make(map[string]*domain.Actor),
		languages: make(map[string]*domain.Language),
	}
}

func (m *MemoryMovieStore) List(ctx context.Context, params ListParams) ([]*domain.Movie, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*domain.Movie, 0, len(m.movies))
	for _, movie := range m.movies {
		all = append(all, movie)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	start := params.Offset()
	if start >= total {
		return []*domain.Movie{}, total, nil
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	page := make([]*domain.Movie, 0, end-start)
	for _, movie := range all[start:end] {
		page = append(page, copyMovie(movie))
	}
	return page, total, nil
}

func (m *MemoryMovieStore) Create(ctx context.Context, input *domain.MovieInput) (*domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.movies {
		if existing.Name == input.Name && existing.Date.Equal(input.Date) {
			return nil, ErrMovieAlreadyExists
		}
	}

	country, ok := m.countries[input.CountryCode]
	if !ok {
		m.nextRef++
		country = &domain.Country{ID: m.nextRef, Code: input.CountryCode}
		m.countries[input.CountryCode] = country
	}

	genres := make([]domain.Genre, 0, len(input.Genres))
	for _, name := range input.Genres {
		genre, ok := m.genres[name]
		if !ok {
			m.nextRef++
			genre = &domain.Genre{ID: m.nextRef, Name: name}
			m.genres[name] = genre
		}
		genres = append(genres, *genre)
	}
	actors := make([]domain.Actor, 0, len(input.Actors))
	for _, name := range input.Actors {
		actor, ok := m.actors[name]
		if !ok {
			m.nextRef++
			actor = &domain.Actor{ID: m.nextRef, Name: name}
			m.actors[name] = actor
		}
		actors = append(actors, *actor)
	}
	languages := make([]domain.Language, 0, len(input.Languages))
	for _, name := range input.Languages {
		language, ok := m.languages[name]
		if !ok {
			m.nextRef++
			language = &domain.Language{ID: m.nextRef, Name: name}
			m.languages[name] = language
		}
		languages = append(languages, *language)
	}

	m.nextMovie++
	movie := &domain.Movie{
		ID:        m.nextMovie,
		Name:      input.Name,
		Date:      input.Date,
		Score:     input.Score,
		Overview:  input.Overview,
		Status:    input.Status,
		Budget:    input.Budget,
		Revenue:   input.Revenue,
		CountryID: country.ID,
		Country:   country,
		Genres:    genres,
		Actors:    actors,
		Languages: languages,
	}
	m.movies[movie.ID] = movie
	return copyMovie(movie), nil
}

func (m *MemoryMovieStore) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return copyMovie(movie), nil
}

func (m *MemoryMovieStore) Update(ctx context.Context, id int64, upd *domain.MovieUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[id]
	if !ok {
		return ErrMovieNotFound
	}
	if upd.Name != nil {
		movie.Name = *upd.Name
	}
	if upd.Date != nil {
		movie.Date = *upd.Date
	}
	if upd.Score != nil {
		movie.Score = *upd.Score
	}
	if upd.Overview != nil {
		movie.Overview = *upd.Overview
	}
	if upd.Status != nil {
		movie.Status = *upd.Status
	}
	if upd.Budget != nil {
		movie.Budget = *upd.Budget
	}
	if upd.Revenue != nil {
		movie.Revenue = *upd.Revenue
	}
	return nil
}

func (m *MemoryMovieStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[id]; !ok {
		return ErrMovieNotFound
	}
	delete(m.movies, id)
	return nil
}

// ReferenceCounts reports how many reference rows of each kind exist.
func (m *MemoryMovieStore) ReferenceCounts() (countries, genres, actors, languages int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.countries), len(m.genres), len(m.actors), len(m.languages)
}

// copyMovie returns a copy so callers cannot mutate stored state through the
// returned pointer.
func copyMovie(movie *domain.Movie) *domain.Movie {
	clone := *movie
	if movie.Country != nil {
		country := *movie.Country
		clone.Country = &country
	}
	clone.Genres = append([]domain.Genre(nil), movie.Genres...)
	clone.Actors = append([]domain.Actor(nil), movie.Actors...)
	clone.Languages = append([]domain.Language(nil), movie.Languages...)
	return &clone
}
