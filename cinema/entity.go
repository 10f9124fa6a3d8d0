package cinema

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by the Fetch shortcuts when the server answers
// with null.
var ErrNotFound = errors.New("not found")

// FindCountry returns the country with id, or nil when there is none.
func (c *Context) FindCountry(ctx context.Context, id int64, fn ...func(*CountryProjection)) (*Country, error) {
	res, err := c.Query(ctx, func(q *QueryProjection) {
		q.Country(id, fn...)
	})
	if err != nil {
		return nil, err
	}
	return res.Country(), nil
}

// FetchCountry is FindCountry for a country that must exist.
func (c *Context) FetchCountry(ctx context.Context, id int64, fn ...func(*CountryProjection)) (*Country, error) {
	country, err := c.FindCountry(ctx, id, fn...)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, fmt.Errorf("country %d: %w", id, ErrNotFound)
	}
	return country, nil
}

// FindCountries lists countries. The block sets the filter and paging
// arguments as well as the projection.
func (c *Context) FindCountries(ctx context.Context, fn ...func(*QueryCountriesQuery)) ([]*Country, error) {
	res, err := c.Query(ctx, func(q *QueryProjection) {
		q.Countries(fn...)
	})
	if err != nil {
		return nil, err
	}
	return res.Countries(), nil
}

// CreateCountry creates a country.
func (c *Context) CreateCountry(ctx context.Context, name string, fn ...func(*CountryProjection)) (*Country, error) {
	res, err := c.Mutation(ctx, func(m *MutationProjection) {
		m.CreateCountry(name, fn...)
	})
	if err != nil {
		return nil, err
	}
	return res.CreateCountry(), nil
}

// OnCountryCreated subscribes to country creations.
func (c *Context) OnCountryCreated(ctx context.Context, fn ...func(*CountryProjection)) (*Events[*Country], error) {
	sub, err := c.Subscribe(ctx, func(s *SubscriptionProjection) {
		s.CountryCreated(fn...)
	})
	if err != nil {
		return nil, err
	}
	return &Events[*Country]{sub: sub, pick: (*Subscription).CountryCreated}, nil
}

// Events delivers the entities of one creation subscription.
type Events[T any] struct {
	sub  *Subscriber
	pick func(*Subscription) T
}

// Receive waits for the next created entity. It returns io.EOF once the
// server completed the subscription.
func (e *Events[T]) Receive(ctx context.Context) (T, error) {
	s, err := e.sub.Receive(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.pick(s), nil
}

// Close stops the subscription.
func (e *Events[T]) Close() error {
	return e.sub.Close()
}

// Refresh fetches the country again. Without a block it selects what the
// receiver was fetched with.
func (c *Country) Refresh(ctx context.Context, fn ...func(*CountryProjection)) (*Country, error) {
	if len(fn) == 0 {
		fn = append(fn, func(p *CountryProjection) {
			p.WithCurrentProjection(c)
		})
	}
	return c.ctx.FetchCountry(ctx, c.ID(), fn...)
}

// FindFilm returns the film of this country with id, or nil.
func (c *Country) FindFilm(ctx context.Context, id int64, fn ...func(*FilmProjection)) (*Film, error) {
	country, err := c.Refresh(ctx, func(p *CountryProjection) {
		p.Minimize()
		p.Film(id, fn...)
	})
	if err != nil {
		return nil, err
	}
	return country.Film(), nil
}

// FetchFilm is FindFilm for a film that must exist.
func (c *Country) FetchFilm(ctx context.Context, id int64, fn ...func(*FilmProjection)) (*Film, error) {
	film, err := c.FindFilm(ctx, id, fn...)
	if err != nil {
		return nil, err
	}
	if film == nil {
		return nil, fmt.Errorf("film %d of country %d: %w", id, c.ID(), ErrNotFound)
	}
	return film, nil
}

// FindFilms lists the films of this country.
func (c *Country) FindFilms(ctx context.Context, fn ...func(*CountryFilmsQuery)) ([]*Film, error) {
	country, err := c.Refresh(ctx, func(p *CountryProjection) {
		p.Minimize()
		p.Films(fn...)
	})
	if err != nil {
		return nil, err
	}
	return country.Films(), nil
}

// FindActors lists the actors of this country.
func (c *Country) FindActors(ctx context.Context, fn ...func(*CountryActorsQuery)) ([]*Actor, error) {
	country, err := c.Refresh(ctx, func(p *CountryProjection) {
		p.Minimize()
		p.Actors(fn...)
	})
	if err != nil {
		return nil, err
	}
	return country.Actors(), nil
}

// CreateFilm creates a film in this country. tags may be nil.
func (c *Country) CreateFilm(ctx context.Context, film FilmInput, tags *TagInput, fn ...func(*FilmProjection)) (*Film, error) {
	res, err := c.ctx.Mutation(ctx, func(m *MutationProjection) {
		m.CreateFilm(c.ID(), film, tags, fn...)
	})
	if err != nil {
		return nil, err
	}
	return res.CreateFilm(), nil
}

// CreateActor creates an actor in this country. tags may be nil.
func (c *Country) CreateActor(ctx context.Context, actor ActorInput, tags *TagInput, fn ...func(*ActorProjection)) (*Actor, error) {
	res, err := c.ctx.Mutation(ctx, func(m *MutationProjection) {
		m.CreateActor(c.ID(), actor, tags, fn...)
	})
	if err != nil {
		return nil, err
	}
	return res.CreateActor(), nil
}

// OnFilmCreated subscribes to the films created in this country.
func (c *Country) OnFilmCreated(ctx context.Context, fn ...func(*FilmProjection)) (*Events[*Film], error) {
	id := c.ID()
	sub, err := c.ctx.Subscribe(ctx, func(s *SubscriptionProjection) {
		s.FilmCreated(&id, fn...)
	})
	if err != nil {
		return nil, err
	}
	return &Events[*Film]{sub: sub, pick: (*Subscription).FilmCreated}, nil
}

// OnActorCreated subscribes to the actors created in this country.
func (c *Country) OnActorCreated(ctx context.Context, fn ...func(*ActorProjection)) (*Events[*Actor], error) {
	id := c.ID()
	sub, err := c.ctx.Subscribe(ctx, func(s *SubscriptionProjection) {
		s.ActorCreated(&id, fn...)
	})
	if err != nil {
		return nil, err
	}
	return &Events[*Actor]{sub: sub, pick: (*Subscription).ActorCreated}, nil
}

// Refresh fetches the film again. Without a block it selects what the
// receiver was fetched with.
func (f *Film) Refresh(ctx context.Context, fn ...func(*FilmProjection)) (*Film, error) {
	if len(fn) == 0 {
		fn = append(fn, func(p *FilmProjection) {
			p.WithCurrentProjection(f)
		})
	}
	res, err := f.ctx.Query(ctx, func(q *QueryProjection) {
		q.Film(f.ID(), fn...)
	})
	if err != nil {
		return nil, err
	}
	film := res.Film()
	if film == nil {
		return nil, fmt.Errorf("film %d: %w", f.ID(), ErrNotFound)
	}
	return film, nil
}

// AddActor casts an actor in this film.
func (f *Film) AddActor(ctx context.Context, actorID int64) (bool, error) {
	res, err := f.ctx.Mutation(ctx, func(m *MutationProjection) {
		m.Associate(f.ID(), actorID)
	})
	if err != nil {
		return false, err
	}
	return res.Associate(), nil
}

// Tag adds a tag to this film.
func (f *Film) Tag(ctx context.Context, value string) (bool, error) {
	res, err := f.ctx.Mutation(ctx, func(m *MutationProjection) {
		m.TagFilm(f.ID(), value)
	})
	if err != nil {
		return false, err
	}
	return res.TagFilm(), nil
}

// Refresh fetches the actor again. Without a block it selects what the
// receiver was fetched with.
func (a *Actor) Refresh(ctx context.Context, fn ...func(*ActorProjection)) (*Actor, error) {
	if len(fn) == 0 {
		fn = append(fn, func(p *ActorProjection) {
			p.WithCurrentProjection(a)
		})
	}
	res, err := a.ctx.Query(ctx, func(q *QueryProjection) {
		q.Actor(a.ID(), fn...)
	})
	if err != nil {
		return nil, err
	}
	actor := res.Actor()
	if actor == nil {
		return nil, fmt.Errorf("actor %d: %w", a.ID(), ErrNotFound)
	}
	return actor, nil
}

// AddFilm casts this actor in a film.
func (a *Actor) AddFilm(ctx context.Context, filmID int64) (bool, error) {
	res, err := a.ctx.Mutation(ctx, func(m *MutationProjection) {
		m.Associate(filmID, a.ID())
	})
	if err != nil {
		return false, err
	}
	return res.Associate(), nil
}

// Tag adds a tag to this actor.
func (a *Actor) Tag(ctx context.Context, value string) (bool, error) {
	res, err := a.ctx.Mutation(ctx, func(m *MutationProjection) {
		m.TagActor(a.ID(), value)
	})
	if err != nil {
		return false, err
	}
	return res.TagActor(), nil
}
