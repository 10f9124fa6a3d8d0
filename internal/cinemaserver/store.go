// Package cinemaserver serves the cinema schema over HTTP and WebSocket
// with graph-gophers/graphql-go. It backs the cinema client examples and
// the end-to-end tests.
package cinemaserver

import (
	"context"
	"errors"
	"time"
)

// ErrNoSuchEntity is returned by store writes that reference a missing
// country, film or actor.
var ErrNoSuchEntity = errors.New("no such entity")

// Country is a stored country.
type Country struct {
	ID   int64
	Name string
}

// Film is a stored film.
type Film struct {
	ID        int64
	CountryID int64
	Title     string
	Genre     string
	Tags      []string
}

// Actor is a stored actor.
type Actor struct {
	ID        int64
	CountryID int64
	FirstName string
	LastName  *string
	Birthday  time.Time
	Gender    string
	Tags      []string
}

// Page bounds a listing. A non-positive Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// CountryFilter selects countries. Name matches ignoring case.
type CountryFilter struct {
	Name string
	Page
}

// FilmFilter selects films. Title matches as a case-insensitive substring.
// Zero values are ignored.
type FilmFilter struct {
	CountryID *int64
	ActorID   *int64
	Title     string
	Genre     string
	Tag       string
	Page
}

// ActorFilter selects actors. Names match as case-insensitive substrings.
// Zero values are ignored.
type ActorFilter struct {
	CountryID    *int64
	FilmID       *int64
	FirstName    string
	LastName     string
	BirthdayFrom *time.Time
	BirthdayTo   *time.Time
	Gender       string
	Tag          string
	Page
}

// Store persists the cinema domain. Lookups of a missing id return nil
// and no error.
type Store interface {
	Country(ctx context.Context, id int64) (*Country, error)
	Countries(ctx context.Context, f CountryFilter) ([]*Country, error)
	Film(ctx context.Context, id int64) (*Film, error)
	Films(ctx context.Context, f FilmFilter) ([]*Film, error)
	Actor(ctx context.Context, id int64) (*Actor, error)
	Actors(ctx context.Context, f ActorFilter) ([]*Actor, error)

	CreateCountry(ctx context.Context, name string) (*Country, error)
	CreateFilm(ctx context.Context, film Film) (*Film, error)
	CreateActor(ctx context.Context, actor Actor) (*Actor, error)
	// Associate casts an actor in a film. It reports false when they were
	// already associated.
	Associate(ctx context.Context, filmID, actorID int64) (bool, error)
	// TagFilm and TagActor report false when the tag was already there.
	TagFilm(ctx context.Context, filmID int64, tag string) (bool, error)
	TagActor(ctx context.Context, actorID int64, tag string) (bool, error)
}

func paginate[T any](items []T, p Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
