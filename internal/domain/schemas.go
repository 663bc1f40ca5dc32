package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateMovieRequest is the body of POST /api/movies.
type CreateMovieRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=255"`
	Date      string   `json:"date" validate:"required,moviedate"`
	Score     float64  `json:"score" validate:"gte=0,lte=100"`
	Overview  string   `json:"overview" validate:"required,min=1,max=1000"`
	Status    string   `json:"status" validate:"required,moviestatus"`
	Budget    float64  `json:"budget" validate:"gte=0"`
	Revenue   float64  `json:"revenue" validate:"gte=0"`
	Country   string   `json:"country" validate:"required,min=2,max=3"`
	Genres    []string `json:"genres" validate:"required,min=1,dive,min=1"`
	Actors    []string `json:"actors" validate:"required,min=1,dive,min=1"`
	Languages []string `json:"languages" validate:"required,min=1,dive,min=1"`
}

// UpdateMovieRequest is the body of PATCH /api/movies/{id}. Every field is
// optional; a nil field means "leave untouched".
type UpdateMovieRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Date      *string  `json:"date,omitempty" validate:"omitempty,moviedate"`
	Score     *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Overview  *string  `json:"overview,omitempty" validate:"omitempty,min=1,max=1000"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,moviestatus"`
	Budget    *float64 `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Revenue   *float64 `json:"revenue,omitempty" validate:"omitempty,gte=0"`
	Country   *string  `json:"country,omitempty" validate:"omitempty,min=2,max=3"`
	Genres    []string `json:"genres,omitempty" validate:"omitempty,min=1,dive,min=1"`
	Actors    []string `json:"actors,omitempty" validate:"omitempty,min=1,dive,min=1"`
	Languages []string `json:"languages,omitempty" validate:"omitempty,min=1,dive,min=1"`
}

// HasAssociations reports whether the update touches any association field.
// The update path does not resolve references, so these are rejected by the
// handler before reaching the store.
func (r *UpdateMovieRequest) HasAssociations() bool {
	return r.Country != nil || len(r.Genres) > 0 || len(r.Actors) > 0 || len(r.Languages) > 0
}

// MovieListItem is the flattened list projection of a movie.
type MovieListItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Overview string  `json:"overview"`
}

// MovieListResponse is the body of GET /api/movies. The page links are nil
// when no neighboring page exists.
type MovieListResponse struct {
	Movies     []MovieListItem `json:"movies"`
	PrevPage   *string         `json:"prev_page"`
	NextPage   *string         `json:"next_page"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
}

// NamedRef is the id+name projection used for genres, actors and languages
// inside a movie detail.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CountryRef is the id+code+name projection of a movie's country.
type CountryRef struct {
	ID   int64   `json:"id"`
	Code string  `json:"code"`
	Name *string `json:"name"`
}

// MovieDetail is the fully expanded movie projection.
type MovieDetail struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	Score     float64    `json:"score"`
	Overview  string     `json:"overview"`
	Status    string     `json:"status"`
	Budget    float64    `json:"budget"`
	Revenue   float64    `json:"revenue"`
	Country   CountryRef `json:"country"`
	Genres    []NamedRef `json:"genres"`
	Actors    []NamedRef `json:"actors"`
	Languages []NamedRef `json:"languages"`
}

// NewMovieListItem flattens a movie into its list projection.
func NewMovieListItem(m *Movie) MovieListItem {
	return MovieListItem{
		ID:       m.ID,
		Name:     m.Name,
		Date:     m.Date.Format(DateLayout),
		Score:    m.Score,
		Overview: m.Overview,
	}
}

// NewMovieDetail expands a fully loaded movie into its detail projection.
// The movie must carry its country and association sets.
func NewMovieDetail(m *Movie) MovieDetail {
	detail := MovieDetail{
		ID:       m.ID,
		Name:     m.Name,
		Date:     m.Date.Format(DateLayout),
		Score:    m.Score,
		Overview: m.Overview,
		Status:   string(m.Status),
		Budget:   m.Budget,
		Revenue:  m.Revenue,
	}
	if m.Country != nil {
		detail.Country = CountryRef{ID: m.Country.ID, Code: m.Country.Code, Name: m.Country.Name}
	}
	detail.Genres = make([]NamedRef, 0, len(m.Genres))
	for _, g := range m.Genres {
		detail.Genres = append(detail.Genres, NamedRef{ID: g.ID, Name: g.Name})
	}
	detail.Actors = make([]NamedRef, 0, len(m.Actors))
	for _, a := range m.Actors {
		detail.Actors = append(detail.Actors, NamedRef{ID: a.ID, Name: a.Name})
	}
	detail.Languages = make([]NamedRef, 0, len(m.Languages))
	for _, l := range m.Languages {
		detail.Languages = append(detail.Languages, NamedRef{ID: l.ID, Name: l.Name})
	}
	return detail
}

// RegisterValidators installs the custom movie validators and wires field
// names in validation errors to their json tags.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("moviedate", validateMovieDate); err != nil {
		return fmt.Errorf("failed to register moviedate validator: %w", err)
	}
	if err := v.RegisterValidation("moviestatus", validateMovieStatus); err != nil {
		return fmt.Errorf("failed to register moviestatus validator: %w", err)
	}
	return nil
}

// validateMovieDate accepts only YYYY-MM-DD strings naming real calendar
// dates; time.Parse rejects both malformed shapes and impossible dates.
func validateMovieDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func validateMovieStatus(fl validator.FieldLevel) bool {
	return MovieStatus(fl.Field().String()).Valid()
}

// ValidationMessage renders a validator error into the client-facing detail
// string, naming each offending field and the rule it violated.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request payload"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "moviestatus":
		labels := make([]string, len(MovieStatuses))
		for i, s := range MovieStatuses {
			labels[i] = string(s)
		}
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(labels, ", "))
	case "moviedate":
		return fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", fe.Field())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters or elements", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters or elements", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the '%s' constraint", fe.Field(), fe.Tag())
	}
}
