package domain

import (
	"time"
)

// MovieStatus is the production status label of a movie.
type MovieStatus string

const (
	StatusReleased       MovieStatus = "Released"
	StatusPostProduction MovieStatus = "Post Production"
	StatusInProduction   MovieStatus = "In Production"
	StatusPlanned        MovieStatus = "Planned"
	StatusCanceled       MovieStatus = "Canceled"
)

// MovieStatuses lists every accepted status label, in the order they are
// reported to clients in validation messages.
var MovieStatuses = []MovieStatus{
	StatusReleased,
	StatusPostProduction,
	StatusInProduction,
	StatusPlanned,
	StatusCanceled,
}

// Valid reports whether s is one of the accepted labels. Matching is
// case-sensitive.
func (s MovieStatus) Valid() bool {
	for _, known := range MovieStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DateLayout is the wire format for release dates.
const DateLayout = "2006-01-02"

// Country is a reference entity identified by its unique 2-3 character code.
// The display name may be unset when the row was created lazily from a movie
// submission.
type Country struct {
	ID   int64   `json:"id" db:"id"`
	Code string  `json:"code" db:"code"`
	Name *string `json:"name" db:"name"`
}

// Genre, Actor and Language are reference entities identified by a unique
// name, created lazily the first time a movie mentions them.
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Actor struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Language struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Movie is the catalog's main entity. The association fields are populated
// only when the movie is loaded through a detail fetch; list queries leave
// them nil.
type Movie struct {
	ID        int64       `db:"id"`
	Name      string      `db:"name"`
	Date      time.Time   `db:"date"`
	Score     float64     `db:"score"`
	Overview  string      `db:"overview"`
	Status    MovieStatus `db:"status"`
	Budget    float64     `db:"budget"`
	Revenue   float64     `db:"revenue"`
	CountryID int64       `db:"country_id"`

	Country   *Country   `db:"-"`
	Genres    []Genre    `db:"-"`
	Actors    []Actor    `db:"-"`
	Languages []Language `db:"-"`
}

// MovieInput carries the fields for creating a movie: scalar values plus the
// reference names the store resolves through its get-or-create lookups.
type MovieInput struct {
	Name        string
	Date        time.Time
	Score       float64
	Overview    string
	Status      MovieStatus
	Budget      float64
	Revenue     float64
	CountryCode string
	Genres      []string
	Actors      []string
	Languages   []string
}

// MovieUpdate carries a partial update of a movie's scalar fields. A nil
// field is left untouched.
type MovieUpdate struct {
	Name     *string
	Date     *time.Time
	Score    *float64
	Overview *string
	Status   *MovieStatus
	Budget   *float64
	Revenue  *float64
}
