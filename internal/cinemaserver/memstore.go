package cinemaserver

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemStore is an in-memory Store. It is safe for concurrent use.
type MemStore struct {
	mu        sync.RWMutex
	countries []*Country
	films     []*Film
	actors    []*Actor
	// film id -> actor ids
	cast   map[int64][]int64
	nextID int64
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{cast: make(map[int64][]int64)}
}

// NewDemoStore returns a store seeded with the demo data the cinema
// examples query.
func NewDemoStore() *MemStore {
	s := NewMemStore()
	ctx := context.Background()
	for _, name := range []string{
		"Argentina", "Australia", "Brazil", "Canada", "China", "France", "Spain",
		"Germany", "India", "Italy", "Japan", "Mexico", "Poland", "Russia",
		"Sweden", "United Kingdom", "United States",
	} {
		_, _ = s.CreateCountry(ctx, name)
	}

	films := []Film{
		{CountryID: 7, Title: "All About My Mother", Genre: "DRAMA", Tags: []string{"best", "oscar"}},
		{CountryID: 7, Title: "Volver", Genre: "DRAMA", Tags: []string{"best"}},
		{CountryID: 7, Title: "The Skin I Live In", Genre: "THRILLER"},
		{CountryID: 7, Title: "Women on the Verge of a Nervous Breakdown", Genre: "COMEDY"},
		{CountryID: 17, Title: "The Godfather", Genre: "DRAMA", Tags: []string{"best", "classic"}},
		{CountryID: 17, Title: "Psycho", Genre: "HORROR", Tags: []string{"classic"}},
		{CountryID: 16, Title: "Trainspotting", Genre: "DRAMA"},
	}
	for _, f := range films {
		_, _ = s.CreateFilm(ctx, f)
	}

	lastName := func(s string) *string { return &s }
	actors := []Actor{
		{CountryID: 7, FirstName: "Penelope", LastName: lastName("Cruz"), Birthday: day(1974, 4, 28), Gender: "FEMALE", Tags: []string{"best"}},
		{CountryID: 7, FirstName: "Antonio", LastName: lastName("Banderas"), Birthday: day(1960, 8, 10), Gender: "MALE"},
		{CountryID: 7, FirstName: "Rossy", LastName: lastName("de Palma"), Birthday: day(1964, 9, 16), Gender: "FEMALE"},
		{CountryID: 17, FirstName: "Marlon", LastName: lastName("Brando"), Birthday: day(1924, 4, 3), Gender: "MALE", Tags: []string{"classic"}},
		{CountryID: 17, FirstName: "Anthony", LastName: lastName("Perkins"), Birthday: day(1932, 4, 4), Gender: "MALE"},
		{CountryID: 16, FirstName: "Ewan", LastName: lastName("McGregor"), Birthday: day(1971, 3, 31), Gender: "MALE"},
	}
	for _, a := range actors {
		_, _ = s.CreateActor(ctx, a)
	}

	// film ids follow the 17 countries, actor ids follow the films
	for _, pair := range [][2]int64{
		{18, 25}, {19, 25}, {20, 26}, {21, 26}, {21, 27}, {18, 27},
		{22, 28}, {23, 29}, {24, 30},
	} {
		_, _ = s.Associate(ctx, pair[0], pair[1])
	}
	return s
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func (s *MemStore) Country(_ context.Context, id int64) (*Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.country(id), nil
}

func (s *MemStore) country(id int64) *Country {
	for _, c := range s.countries {
		if c.ID == id {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (s *MemStore) Countries(_ context.Context, f CountryFilter) ([]*Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Country
	for _, c := range s.countries {
		if f.Name != "" && !strings.EqualFold(c.Name, f.Name) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return paginate(out, f.Page), nil
}

func (s *MemStore) Film(_ context.Context, id int64) (*Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.film(id), nil
}

func (s *MemStore) film(id int64) *Film {
	for _, f := range s.films {
		if f.ID == id {
			return copyFilm(f)
		}
	}
	return nil
}

func (s *MemStore) Films(_ context.Context, f FilmFilter) ([]*Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Film
	for _, film := range s.films {
		switch {
		case f.CountryID != nil && film.CountryID != *f.CountryID,
			f.ActorID != nil && !slices.Contains(s.cast[film.ID], *f.ActorID),
			f.Title != "" && !containsFold(film.Title, f.Title),
			f.Genre != "" && film.Genre != f.Genre,
			f.Tag != "" && !slices.Contains(film.Tags, f.Tag):
			continue
		}
		out = append(out, copyFilm(film))
	}
	return paginate(out, f.Page), nil
}

func (s *MemStore) Actor(_ context.Context, id int64) (*Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actor(id), nil
}

func (s *MemStore) actor(id int64) *Actor {
	for _, a := range s.actors {
		if a.ID == id {
			return copyActor(a)
		}
	}
	return nil
}

func (s *MemStore) Actors(_ context.Context, f ActorFilter) ([]*Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Actor
	for _, a := range s.actors {
		var lastName string
		if a.LastName != nil {
			lastName = *a.LastName
		}
		switch {
		case f.CountryID != nil && a.CountryID != *f.CountryID,
			f.FilmID != nil && !slices.Contains(s.cast[*f.FilmID], a.ID),
			f.FirstName != "" && !containsFold(a.FirstName, f.FirstName),
			f.LastName != "" && !containsFold(lastName, f.LastName),
			f.BirthdayFrom != nil && a.Birthday.Before(*f.BirthdayFrom),
			f.BirthdayTo != nil && a.Birthday.After(*f.BirthdayTo),
			f.Gender != "" && a.Gender != f.Gender,
			f.Tag != "" && !slices.Contains(a.Tags, f.Tag):
			continue
		}
		out = append(out, copyActor(a))
	}
	return paginate(out, f.Page), nil
}

func (s *MemStore) CreateCountry(_ context.Context, name string) (*Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := &Country{ID: s.nextID, Name: name}
	s.countries = append(s.countries, c)
	cp := *c
	return &cp, nil
}

func (s *MemStore) CreateFilm(_ context.Context, film Film) (*Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.country(film.CountryID) == nil {
		return nil, fmt.Errorf("country %d: %w", film.CountryID, ErrNoSuchEntity)
	}
	s.nextID++
	film.ID = s.nextID
	f := copyFilm(&film)
	s.films = append(s.films, f)
	return copyFilm(f), nil
}

func (s *MemStore) CreateActor(_ context.Context, actor Actor) (*Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.country(actor.CountryID) == nil {
		return nil, fmt.Errorf("country %d: %w", actor.CountryID, ErrNoSuchEntity)
	}
	s.nextID++
	actor.ID = s.nextID
	a := copyActor(&actor)
	s.actors = append(s.actors, a)
	return copyActor(a), nil
}

func (s *MemStore) Associate(_ context.Context, filmID, actorID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.film(filmID) == nil {
		return false, fmt.Errorf("film %d: %w", filmID, ErrNoSuchEntity)
	}
	if s.actor(actorID) == nil {
		return false, fmt.Errorf("actor %d: %w", actorID, ErrNoSuchEntity)
	}
	if slices.Contains(s.cast[filmID], actorID) {
		return false, nil
	}
	s.cast[filmID] = append(s.cast[filmID], actorID)
	return true, nil
}

func (s *MemStore) TagFilm(_ context.Context, filmID int64, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.films {
		if f.ID == filmID {
			return addTag(&f.Tags, tag), nil
		}
	}
	return false, fmt.Errorf("film %d: %w", filmID, ErrNoSuchEntity)
}

func (s *MemStore) TagActor(_ context.Context, actorID int64, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.actors {
		if a.ID == actorID {
			return addTag(&a.Tags, tag), nil
		}
	}
	return false, fmt.Errorf("actor %d: %w", actorID, ErrNoSuchEntity)
}

func addTag(tags *[]string, tag string) bool {
	if slices.Contains(*tags, tag) {
		return false
	}
	*tags = append(*tags, tag)
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func copyFilm(f *Film) *Film {
	cp := *f
	cp.Tags = slices.Clone(f.Tags)
	return &cp
}

func copyActor(a *Actor) *Actor {
	cp := *a
	cp.Tags = slices.Clone(a.Tags)
	if a.LastName != nil {
		ln := *a.LastName
		cp.LastName = &ln
	}
	return &cp
}
