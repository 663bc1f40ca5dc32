package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/internal/domain"
)

func movieInput(name string, date time.Time) *domain.MovieInput {
	return &domain.MovieInput{
		Name:        name,
		Date:        date,
		Score:       75,
		Overview:    "overview",
		Status:      domain.StatusReleased,
		Budget:      1000,
		Revenue:     2000,
		CountryCode: "US",
		Genres:      []string{"Sci-Fi"},
		Actors:      []string{"Actor One"},
		Languages:   []string{"English"},
	}
}

func TestMemoryStoreGetOrCreateReusesReferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMovieStore()
	date := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)

	first, err := s.Create(ctx, movieInput("Movie A", date))
	require.NoError(t, err)
	countries, genres, actors, languages := s.ReferenceCounts()
	assert.Equal(t, []int{1, 1, 1, 1}, []int{countries, genres, actors, languages})

	// A second movie reusing the same names creates zero new reference rows.
	second, err := s.Create(ctx, movieInput("Movie B", date))
	require.NoError(t, err)
	countries, genres, actors, languages = s.ReferenceCounts()
	assert.Equal(t, []int{1, 1, 1, 1}, []int{countries, genres, actors, languages})
	assert.Equal(t, first.Genres[0].ID, second.Genres[0].ID)
	assert.Equal(t, first.Country.ID, second.Country.ID)

	third := movieInput("Movie C", date)
	third.Genres = append(third.Genres, "Drama")
	_, err = s.Create(ctx, third)
	require.NoError(t, err)
	_, genres, _, _ = s.ReferenceCounts()
	assert.Equal(t, 2, genres)
}

func TestMemoryStoreDuplicateNameAndDate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMovieStore()
	date := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)

	_, err := s.Create(ctx, movieInput("Movie A", date))
	require.NoError(t, err)

	_, err = s.Create(ctx, movieInput("Movie A", date))
	assert.ErrorIs(t, err, ErrMovieAlreadyExists)

	// Same name on a different date is allowed.
	_, err = s.Create(ctx, movieInput("Movie A", date.AddDate(0, 0, 1)))
	assert.NoError(t, err)
}

func TestMemoryStoreDeleteKeepsReferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMovieStore()
	date := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)

	movie, err := s.Create(ctx, movieInput("Movie A", date))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, movie.ID))
	_, err = s.GetByID(ctx, movie.ID)
	assert.ErrorIs(t, err, ErrMovieNotFound)

	countries, genres, actors, languages := s.ReferenceCounts()
	assert.Equal(t, []int{1, 1, 1, 1}, []int{countries, genres, actors, languages})

	assert.ErrorIs(t, s.Delete(ctx, movie.ID), ErrMovieNotFound)
}

func TestMemoryStoreListPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMovieStore()
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.Create(ctx, movieInput("Movie", base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	page, total, err := s.List(ctx, ListParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Greater(t, page[0].ID, page[1].ID)

	page, total, err = s.List(ctx, ListParams{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 1)

	page, _, err = s.List(ctx, ListParams{Page: 4, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStorePartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMovieStore()
	date := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)

	movie, err := s.Create(ctx, movieInput("Movie A", date))
	require.NoError(t, err)

	score := 91.5
	require.NoError(t, s.Update(ctx, movie.ID, &domain.MovieUpdate{Score: &score}))

	updated, err := s.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 91.5, updated.Score)
	assert.Equal(t, "Movie A", updated.Name)
	assert.Equal(t, domain.StatusReleased, updated.Status)

	assert.ErrorIs(t, s.Update(ctx, 999, &domain.MovieUpdate{Score: &score}), ErrMovieNotFound)
}
