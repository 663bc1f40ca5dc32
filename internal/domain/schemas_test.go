package domain

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterValidators(v))
	return v
}

func validCreateRequest() CreateMovieRequest {
	return CreateMovieRequest{
		Name:      "Dune",
		Date:      "2021-10-22",
		Score:     80.5,
		Overview:  "overview",
		Status:    "Released",
		Budget:    165000000,
		Revenue:   402000000,
		Country:   "US",
		Genres:    []string{"Sci-Fi"},
		Actors:    []string{"Timothée Chalamet"},
		Languages: []string{"English"},
	}
}

func TestCreateRequestValidation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name   string
		mutate func(*CreateMovieRequest)
		ok     bool
	}{
		{"valid", func(r *CreateMovieRequest) {}, true},
		{"zero score is valid", func(r *CreateMovieRequest) { r.Score = 0 }, true},
		{"score at upper bound", func(r *CreateMovieRequest) { r.Score = 100 }, true},
		{"three letter country", func(r *CreateMovieRequest) { r.Country = "USA" }, true},
		{"every status label", func(r *CreateMovieRequest) { r.Status = "Post Production" }, true},
		{"empty name", func(r *CreateMovieRequest) { r.Name = "" }, false},
		{"status lowercase", func(r *CreateMovieRequest) { r.Status = "released" }, false},
		{"status unknown", func(r *CreateMovieRequest) { r.Status = "Announced" }, false},
		{"impossible date", func(r *CreateMovieRequest) { r.Date = "2021-02-30" }, false},
		{"wrong date shape", func(r *CreateMovieRequest) { r.Date = "22/10/2021" }, false},
		{"score above 100", func(r *CreateMovieRequest) { r.Score = 100.1 }, false},
		{"negative budget", func(r *CreateMovieRequest) { r.Budget = -1 }, false},
		{"negative revenue", func(r *CreateMovieRequest) { r.Revenue = -1 }, false},
		{"country too short", func(r *CreateMovieRequest) { r.Country = "U" }, false},
		{"country too long", func(r *CreateMovieRequest) { r.Country = "USAX" }, false},
		{"no genres", func(r *CreateMovieRequest) { r.Genres = nil }, false},
		{"empty genre name", func(r *CreateMovieRequest) { r.Genres = []string{""} }, false},
		{"no actors", func(r *CreateMovieRequest) { r.Actors = []string{} }, false},
		{"no languages", func(r *CreateMovieRequest) { r.Languages = []string{} }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			err := v.Struct(req)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUpdateRequestValidation(t *testing.T) {
	v := newValidator(t)

	// A fully empty update is valid; absent fields skip their validators.
	assert.NoError(t, v.Struct(UpdateMovieRequest{}))

	status := "Canceled"
	date := "2023-01-15"
	assert.NoError(t, v.Struct(UpdateMovieRequest{Status: &status, Date: &date}))

	badStatus := "canceled"
	assert.Error(t, v.Struct(UpdateMovieRequest{Status: &badStatus}))

	badDate := "2023-13-01"
	assert.Error(t, v.Struct(UpdateMovieRequest{Date: &badDate}))

	emptyName := ""
	assert.Error(t, v.Struct(UpdateMovieRequest{Name: &emptyName}))
}

func TestUpdateRequestHasAssociations(t *testing.T) {
	assert.False(t, (&UpdateMovieRequest{}).HasAssociations())

	country := "FR"
	assert.True(t, (&UpdateMovieRequest{Country: &country}).HasAssociations())
	assert.True(t, (&UpdateMovieRequest{Genres: []string{"Drama"}}).HasAssociations())
	assert.True(t, (&UpdateMovieRequest{Actors: []string{"Zendaya"}}).HasAssociations())
	assert.True(t, (&UpdateMovieRequest{Languages: []string{"French"}}).HasAssociations())
}

func TestValidationMessage(t *testing.T) {
	v := newValidator(t)

	req := validCreateRequest()
	req.Status = "released"
	err := v.Struct(req)
	require.Error(t, err)
	assert.Equal(t,
		"Validation failed: status must be one of: Released, Post Production, In Production, Planned, Canceled",
		ValidationMessage(err))

	req = validCreateRequest()
	req.Date = "not-a-date"
	err = v.Struct(req)
	require.Error(t, err)
	assert.Contains(t, ValidationMessage(err), "date must be a valid date in YYYY-MM-DD format")
}

func TestMovieStatusValid(t *testing.T) {
	for _, s := range MovieStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, MovieStatus("released").Valid())
	assert.False(t, MovieStatus("").Valid())
}

func TestNewMovieDetailAndListItem(t *testing.T) {
	name := "United States"
	movie := fullyLoadedMovie(&name)

	detail := NewMovieDetail(movie)
	assert.Equal(t, "2021-10-22", detail.Date)
	assert.Equal(t, "Released", detail.Status)
	assert.Equal(t, "US", detail.Country.Code)
	require.NotNil(t, detail.Country.Name)
	assert.Equal(t, "United States", *detail.Country.Name)
	require.Len(t, detail.Genres, 1)
	assert.Equal(t, NamedRef{ID: 2, Name: "Sci-Fi"}, detail.Genres[0])

	item := NewMovieListItem(movie)
	assert.Equal(t, movie.ID, item.ID)
	assert.Equal(t, "2021-10-22", item.Date)
}

func fullyLoadedMovie(countryName *string) *Movie {
	return &Movie{
		ID:       7,
		Name:     "Dune",
		Date:     mustDate("2021-10-22"),
		Score:    80.5,
		Overview: "overview",
		Status:   StatusReleased,
		Budget:   165000000,
		Revenue:  402000000,
		Country:  &Country{ID: 1, Code: "US", Name: countryName},
		Genres:   []Genre{{ID: 2, Name: "Sci-Fi"}},
		Actors:   []Actor{{ID: 3, Name: "Timothée Chalamet"}},
		Languages: []Language{{ID: 4, Name: "English"}},
	}
}

func mustDate(value string) time.Time {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return date
}
