package cinemaserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// resolver is the root resolver for queries, mutations and subscriptions.
type resolver struct {
	store Store
	bus   *EventBus
	log   *zap.Logger
}

type pageArgs struct {
	Limit  int32
	Offset int32
}

func page(limit, offset int32) Page {
	return Page{Limit: int(limit), Offset: int(offset)}
}

type filmsArgs struct {
	Title  *string
	Genre  *string
	Limit  int32
	Offset int32
}

func (a filmsArgs) filter() FilmFilter {
	return FilmFilter{Title: deref(a.Title), Genre: deref(a.Genre), Page: page(a.Limit, a.Offset)}
}

type actorsArgs struct {
	FirstName    *string
	LastName     *string
	BirthdayFrom *date
	BirthdayTo   *date
	Gender       *string
	Limit        int32
	Offset       int32
}

func (a actorsArgs) filter() ActorFilter {
	return ActorFilter{
		FirstName:    deref(a.FirstName),
		LastName:     deref(a.LastName),
		BirthdayFrom: a.BirthdayFrom.time(),
		BirthdayTo:   a.BirthdayTo.time(),
		Gender:       deref(a.Gender),
		Page:         page(a.Limit, a.Offset),
	}
}

type fieldsArgs struct {
	Keys *[]string
}

// pick keeps the entries named by keys, or all of them without keys.
func (a fieldsArgs) pick(all jsonObject) jsonObject {
	if a.Keys == nil {
		return all
	}
	out := make(jsonObject, len(*a.Keys))
	for _, k := range *a.Keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// storeErr logs a store failure and hides its details from the client.
func (r *resolver) storeErr(op string, err error) error {
	r.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s failed", op)
}

// Query

func (r *resolver) Country(ctx context.Context, args struct{ ID entityID }) (*countryResolver, error) {
	c, err := r.store.Country(ctx, int64(args.ID))
	if err != nil {
		return nil, r.storeErr("country", err)
	}
	return r.country(c), nil
}

func (r *resolver) Countries(ctx context.Context, args struct {
	Name   *string
	Limit  int32
	Offset int32
}) ([]*countryResolver, error) {
	cs, err := r.store.Countries(ctx, CountryFilter{
		Name: strings.TrimSpace(deref(args.Name)),
		Page: page(args.Limit, args.Offset),
	})
	if err != nil {
		return nil, r.storeErr("countries", err)
	}
	return mapSlice(cs, r.country), nil
}

func (r *resolver) Film(ctx context.Context, args struct{ ID entityID }) (*filmResolver, error) {
	f, err := r.store.Film(ctx, int64(args.ID))
	if err != nil {
		return nil, r.storeErr("film", err)
	}
	return r.film(f), nil
}

func (r *resolver) Films(ctx context.Context, args filmsArgs) ([]*filmResolver, error) {
	return r.films(ctx, args.filter())
}

func (r *resolver) Actor(ctx context.Context, args struct{ ID entityID }) (*actorResolver, error) {
	a, err := r.store.Actor(ctx, int64(args.ID))
	if err != nil {
		return nil, r.storeErr("actor", err)
	}
	return r.actor(a), nil
}

func (r *resolver) Actors(ctx context.Context, args actorsArgs) ([]*actorResolver, error) {
	return r.actors(ctx, args.filter())
}

func (r *resolver) Taggable(ctx context.Context, args struct{ Tag string }) ([]*taggableResolver, error) {
	return r.taggable(ctx, nil, args.Tag)
}

// Mutation

func (r *resolver) CreateCountry(ctx context.Context, args struct{ Name string }) (*countryResolver, error) {
	if err := requireRole(ctx, RoleAdmin); err != nil {
		return nil, err
	}
	c, err := r.store.CreateCountry(ctx, args.Name)
	if err != nil {
		return nil, r.storeErr("createCountry", err)
	}
	r.bus.Countries.Publish(c.ID, c)
	return r.country(c), nil
}

type filmInput struct {
	Title string
	Genre string
}

type actorInput struct {
	FirstName string
	LastName  *string
	Birthday  date
	Gender    string
}

type tagInput struct {
	Value string
}

func (t *tagInput) tags() []string {
	if t == nil || t.Value == "" {
		return nil
	}
	return []string{t.Value}
}

func (r *resolver) CreateFilm(ctx context.Context, args struct {
	CountryID entityID
	Film      filmInput
	Tags      *tagInput
}) (*filmResolver, error) {
	if err := requireRole(ctx, RoleAdmin); err != nil {
		return nil, err
	}
	f, err := r.store.CreateFilm(ctx, Film{
		CountryID: int64(args.CountryID),
		Title:     args.Film.Title,
		Genre:     args.Film.Genre,
		Tags:      args.Tags.tags(),
	})
	if err != nil {
		return nil, r.writeErr("createFilm", err)
	}
	r.bus.Films.Publish(f.CountryID, f)
	return r.film(f), nil
}

func (r *resolver) CreateActor(ctx context.Context, args struct {
	CountryID entityID
	Actor     actorInput
	Tags      *tagInput
}) (*actorResolver, error) {
	if err := requireRole(ctx, RoleAdmin); err != nil {
		return nil, err
	}
	a, err := r.store.CreateActor(ctx, Actor{
		CountryID: int64(args.CountryID),
		FirstName: args.Actor.FirstName,
		LastName:  args.Actor.LastName,
		Birthday:  args.Actor.Birthday.Time,
		Gender:    args.Actor.Gender,
		Tags:      args.Tags.tags(),
	})
	if err != nil {
		return nil, r.writeErr("createActor", err)
	}
	r.bus.Actors.Publish(a.CountryID, a)
	return r.actor(a), nil
}

func (r *resolver) Associate(ctx context.Context, args struct{ FilmID, ActorID entityID }) (bool, error) {
	if err := requireRole(ctx, RoleAdmin); err != nil {
		return false, err
	}
	ok, err := r.store.Associate(ctx, int64(args.FilmID), int64(args.ActorID))
	if err != nil {
		return false, r.writeErr("associate", err)
	}
	return ok, nil
}

func (r *resolver) TagFilm(ctx context.Context, args struct {
	FilmID   entityID
	TagValue string
}) (bool, error) {
	if err := requireRole(ctx, RoleAdmin); err != nil {
		return false, err
	}
	ok, err := r.store.TagFilm(ctx, int64(args.FilmID), args.TagValue)
	if err != nil {
		return false, r.writeErr("tagFilm", err)
	}
	return ok, nil
}

func (r *resolver) TagActor(ctx context.Context, args struct {
	ActorID  entityID
	TagValue string
}) (bool, error) {
	if err := requireRole(ctx, RoleAdmin); err != nil {
		return false, err
	}
	ok, err := r.store.TagActor(ctx, int64(args.ActorID), args.TagValue)
	if err != nil {
		return false, r.writeErr("tagActor", err)
	}
	return ok, nil
}

// writeErr passes missing references through to the client.
func (r *resolver) writeErr(op string, err error) error {
	if errors.Is(err, ErrNoSuchEntity) {
		return err
	}
	return r.storeErr(op, err)
}

// Subscription

func (r *resolver) CountryCreated(ctx context.Context) <-chan *countryResolver {
	return forward(ctx, r.bus.Countries.Subscribe(ctx, nil), r.country)
}

func (r *resolver) FilmCreated(ctx context.Context, args struct{ CountryID *entityID }) <-chan *filmResolver {
	return forward(ctx, r.bus.Films.Subscribe(ctx, args.CountryID.int64()), r.film)
}

func (r *resolver) ActorCreated(ctx context.Context, args struct{ CountryID *entityID }) <-chan *actorResolver {
	return forward(ctx, r.bus.Actors.Subscribe(ctx, args.CountryID.int64()), r.actor)
}

// forward converts bus events into resolvers until in is closed or ctx
// is done.
func forward[E, R any](ctx context.Context, in <-chan E, wrap func(E) R) <-chan R {
	out := make(chan R)
	go func() {
		defer close(out)
		for e := range in {
			select {
			case out <- wrap(e):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func mapSlice[E, R any](in []E, fn func(E) R) []R {
	out := make([]R, len(in))
	for i, e := range in {
		out[i] = fn(e)
	}
	return out
}

// shared lookups

func (r *resolver) country(c *Country) *countryResolver {
	if c == nil {
		return nil
	}
	return &countryResolver{r: r, c: c}
}

func (r *resolver) film(f *Film) *filmResolver {
	if f == nil {
		return nil
	}
	return &filmResolver{r: r, f: f}
}

func (r *resolver) actor(a *Actor) *actorResolver {
	if a == nil {
		return nil
	}
	return &actorResolver{r: r, a: a}
}

func (r *resolver) films(ctx context.Context, f FilmFilter) ([]*filmResolver, error) {
	fs, err := r.store.Films(ctx, f)
	if err != nil {
		return nil, r.storeErr("films", err)
	}
	return mapSlice(fs, r.film), nil
}

func (r *resolver) actors(ctx context.Context, f ActorFilter) ([]*actorResolver, error) {
	as, err := r.store.Actors(ctx, f)
	if err != nil {
		return nil, r.storeErr("actors", err)
	}
	return mapSlice(as, r.actor), nil
}

// natives lists the films and then the actors of a country, or of every
// country when country is nil, optionally restricted to a tag.
func (r *resolver) natives(ctx context.Context, country *int64, tag string) ([]*nativeResolver, error) {
	fs, err := r.films(ctx, FilmFilter{CountryID: country, Tag: tag})
	if err != nil {
		return nil, err
	}
	as, err := r.actors(ctx, ActorFilter{CountryID: country, Tag: tag})
	if err != nil {
		return nil, err
	}
	out := make([]*nativeResolver, 0, len(fs)+len(as))
	for _, f := range fs {
		out = append(out, &nativeResolver{film: f})
	}
	for _, a := range as {
		out = append(out, &nativeResolver{actor: a})
	}
	return out, nil
}

func (r *resolver) taggable(ctx context.Context, country *int64, tag string) ([]*taggableResolver, error) {
	ns, err := r.natives(ctx, country, tag)
	if err != nil {
		return nil, err
	}
	return mapSlice(ns, func(n *nativeResolver) *taggableResolver {
		return &taggableResolver{nativeResolver: *n}
	}), nil
}

type countryResolver struct {
	r *resolver
	c *Country
}

func (c *countryResolver) ID() entityID { return entityID(c.c.ID) }
func (c *countryResolver) Name() string { return c.c.Name }

func (c *countryResolver) Fields(args fieldsArgs) jsonObject {
	return args.pick(jsonObject{"id": c.c.ID, "name": c.c.Name})
}

func (c *countryResolver) Film(ctx context.Context, args struct{ ID entityID }) (*filmResolver, error) {
	f, err := c.r.store.Film(ctx, int64(args.ID))
	if err != nil {
		return nil, c.r.storeErr("film", err)
	}
	if f == nil || f.CountryID != c.c.ID {
		return nil, nil
	}
	return c.r.film(f), nil
}

func (c *countryResolver) Films(ctx context.Context, args filmsArgs) ([]*filmResolver, error) {
	f := args.filter()
	f.CountryID = &c.c.ID
	return c.r.films(ctx, f)
}

func (c *countryResolver) Actor(ctx context.Context, args struct{ ID entityID }) (*actorResolver, error) {
	a, err := c.r.store.Actor(ctx, int64(args.ID))
	if err != nil {
		return nil, c.r.storeErr("actor", err)
	}
	if a == nil || a.CountryID != c.c.ID {
		return nil, nil
	}
	return c.r.actor(a), nil
}

func (c *countryResolver) Actors(ctx context.Context, args actorsArgs) ([]*actorResolver, error) {
	f := args.filter()
	f.CountryID = &c.c.ID
	return c.r.actors(ctx, f)
}

func (c *countryResolver) Taggable(ctx context.Context, args struct{ Tag string }) ([]*taggableResolver, error) {
	return c.r.taggable(ctx, &c.c.ID, args.Tag)
}

func (c *countryResolver) Native(ctx context.Context, args pageArgs) ([]*nativeResolver, error) {
	ns, err := c.r.natives(ctx, &c.c.ID, "")
	if err != nil {
		return nil, err
	}
	return paginate(ns, page(args.Limit, args.Offset)), nil
}

type filmResolver struct {
	r *resolver
	f *Film
}

func (f *filmResolver) ID() entityID        { return entityID(f.f.ID) }
func (f *filmResolver) Title() string       { return f.f.Title }
func (f *filmResolver) Genre() string       { return f.f.Genre }
func (f *filmResolver) CountryID() entityID { return entityID(f.f.CountryID) }
func (f *filmResolver) Tags() []*tagResolver {
	return mapSlice(f.f.Tags, newTag)
}

func (f *filmResolver) Fields(args fieldsArgs) jsonObject {
	return args.pick(jsonObject{"id": f.f.ID, "title": f.f.Title, "genre": f.f.Genre})
}

func (f *filmResolver) Country(ctx context.Context) (*countryResolver, error) {
	c, err := f.r.store.Country(ctx, f.f.CountryID)
	if err != nil {
		return nil, f.r.storeErr("country", err)
	}
	if c == nil {
		return nil, fmt.Errorf("film %d: country %d: %w", f.f.ID, f.f.CountryID, ErrNoSuchEntity)
	}
	return f.r.country(c), nil
}

func (f *filmResolver) Actors(ctx context.Context, args actorsArgs) ([]*actorResolver, error) {
	filter := args.filter()
	filter.FilmID = &f.f.ID
	return f.r.actors(ctx, filter)
}

type actorResolver struct {
	r *resolver
	a *Actor
}

func (a *actorResolver) ID() entityID        { return entityID(a.a.ID) }
func (a *actorResolver) FirstName() string   { return a.a.FirstName }
func (a *actorResolver) LastName() *string   { return a.a.LastName }
func (a *actorResolver) Birthday() date      { return date{a.a.Birthday} }
func (a *actorResolver) Gender() string      { return a.a.Gender }
func (a *actorResolver) CountryID() entityID { return entityID(a.a.CountryID) }
func (a *actorResolver) Tags() []*tagResolver {
	return mapSlice(a.a.Tags, newTag)
}

func (a *actorResolver) Fields(args fieldsArgs) jsonObject {
	return args.pick(jsonObject{
		"id":        a.a.ID,
		"firstName": a.a.FirstName,
		"lastName":  a.a.LastName,
		"birthday":  a.a.Birthday.Format(dateLayout),
		"gender":    a.a.Gender,
	})
}

func (a *actorResolver) Country(ctx context.Context) (*countryResolver, error) {
	c, err := a.r.store.Country(ctx, a.a.CountryID)
	if err != nil {
		return nil, a.r.storeErr("country", err)
	}
	if c == nil {
		return nil, fmt.Errorf("actor %d: country %d: %w", a.a.ID, a.a.CountryID, ErrNoSuchEntity)
	}
	return a.r.country(c), nil
}

func (a *actorResolver) Films(ctx context.Context, args filmsArgs) ([]*filmResolver, error) {
	filter := args.filter()
	filter.ActorID = &a.a.ID
	return a.r.films(ctx, filter)
}

type tagResolver struct {
	value string
}

func newTag(value string) *tagResolver { return &tagResolver{value: value} }

func (t *tagResolver) Value() string { return t.value }

// nativeResolver resolves the Native union.
type nativeResolver struct {
	film  *filmResolver
	actor *actorResolver
}

func (n *nativeResolver) ToFilm() (*filmResolver, bool)   { return n.film, n.film != nil }
func (n *nativeResolver) ToActor() (*actorResolver, bool) { return n.actor, n.actor != nil }

// taggableResolver resolves the Taggable interface.
type taggableResolver struct {
	nativeResolver
}

func (t *taggableResolver) ID() entityID {
	if t.film != nil {
		return t.film.ID()
	}
	return t.actor.ID()
}

func (t *taggableResolver) Tags() []*tagResolver {
	if t.film != nil {
		return t.film.Tags()
	}
	return t.actor.Tags()
}
