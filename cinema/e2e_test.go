package cinema_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	graphql "github.com/llehouerou/go-graphql-projection"
	"github.com/llehouerou/go-graphql-projection/cinema"
	"github.com/llehouerou/go-graphql-projection/internal/cinemaserver"
)

type cinemaServer struct {
	srv *cinemaserver.Server
	ts  *httptest.Server
}

func startServer(t *testing.T) *cinemaServer {
	t.Helper()
	srv, err := cinemaserver.NewServer(cinemaserver.DefaultConfig(), cinemaserver.NewDemoStore(), zap.NewNop())
	require.NoError(t, err)
	return &cinemaServer{srv: srv, ts: httptest.NewServer(srv)}
}

func (s *cinemaServer) Close() {
	s.srv.Close()
	s.ts.Close()
}

// connect returns a Context authenticated as user, whose password is the
// same as its name in the default config.
func (s *cinemaServer) connect(user string) *cinema.Context {
	url := s.ts.URL + cinemaserver.Path
	client := graphql.NewClient(url, s.ts.Client())
	sc := graphql.NewSubscriptionClient(url).WithHTTPClient(s.ts.Client())
	if user != "" {
		client = client.WithRequestModifier(func(r *http.Request) {
			r.SetBasicAuth(user, user)
		})
		sc = sc.WithHeader("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+user)))
	}
	return cinema.NewContext(graphql.Transport{Client: client, SubscriptionClient: sc})
}

func TestE2E_fetchCountry(t *testing.T) {
	s := startServer(t)
	defer s.Close()
	c := s.connect("user")
	ctx := context.Background()

	country, err := c.FetchCountry(ctx, 7, func(p *cinema.CountryProjection) {
		p.Films(func(f *cinema.CountryFilmsQuery) {
			f.SetLimit(2)
			f.Tags()
			f.Actors(func(a *cinema.FilmActorsQuery) {
				a.SetGender(cinema.GenderFemale)
			})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, "Spain", country.Name())

	films := country.Films()
	require.Len(t, films, 2)
	assert.Equal(t, "All About My Mother", films[0].Title())
	assert.Equal(t, cinema.GenreDrama, films[0].Genre())
	assert.Equal(t, int64(7), films[0].CountryID())
	require.Len(t, films[0].Tags(), 2)
	assert.Equal(t, "oscar", films[0].Tags()[1].Value())

	var actresses []string
	for _, a := range films[0].Actors() {
		actresses = append(actresses, a.FirstName())
		assert.Equal(t, cinema.GenderFemale, a.Gender())
	}
	assert.Equal(t, []string{"Penelope", "Rossy"}, actresses)

	_, err = c.FetchCountry(ctx, 1000)
	require.ErrorIs(t, err, cinema.ErrNotFound)
}

func TestE2E_countrySugar(t *testing.T) {
	s := startServer(t)
	defer s.Close()
	c := s.connect("user")
	ctx := context.Background()

	country, err := c.FetchCountry(ctx, 17)
	require.NoError(t, err)

	film, err := country.FetchFilm(ctx, 22, func(p *cinema.FilmProjection) {
		p.Country()
	})
	require.NoError(t, err)
	assert.Equal(t, "The Godfather", film.Title())
	assert.Equal(t, "United States", film.Country().Name())

	_, err = country.FetchFilm(ctx, 18)
	require.ErrorIs(t, err, cinema.ErrNotFound, "film 18 belongs to Spain")

	horror, err := country.FindFilms(ctx, func(q *cinema.CountryFilmsQuery) {
		q.SetGenre(cinema.GenreHorror)
	})
	require.NoError(t, err)
	require.Len(t, horror, 1)
	assert.Equal(t, "Psycho", horror[0].Title())

	actors, err := country.FindActors(ctx, func(q *cinema.CountryActorsQuery) {
		q.SetBirthdayTo(time.Date(1930, 1, 1, 0, 0, 0, 0, time.UTC))
		q.Films()
	})
	require.NoError(t, err)
	require.Len(t, actors, 1)
	assert.Equal(t, "Brando", *actors[0].LastName())
	assert.Equal(t, time.Date(1924, 4, 3, 0, 0, 0, 0, time.UTC), actors[0].Birthday())
	assert.Equal(t, "The Godfather", actors[0].Films()[0].Title())

	refreshed, err := actors[0].Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The Godfather", refreshed.Films()[0].Title(), "refresh keeps the films selection")
}

func TestE2E_nativeAndTaggable(t *testing.T) {
	s := startServer(t)
	defer s.Close()
	c := s.connect("user")

	country, err := c.FetchCountry(context.Background(), 16, func(p *cinema.CountryProjection) {
		p.Minimize()
		p.Native(func(q *cinema.CountryNativeQuery) {
			q.SetLimit(-1)
			q.OnFilm(func(f *cinema.FilmProjection) { f.Minimize(); f.Title() })
			q.OnActor(func(a *cinema.ActorProjection) { a.Minimize(); a.LastName() })
		})
		p.Taggable("best", func(tp *cinema.TaggableProjection) {
			tp.Tags()
		})
	})
	require.NoError(t, err)

	var native []string
	for _, n := range country.Native() {
		switch v := n.(type) {
		case *cinema.Film:
			native = append(native, v.Title())
		case *cinema.Actor:
			native = append(native, *v.LastName())
		}
	}
	assert.Equal(t, []string{"Trainspotting", "McGregor"}, native)
	assert.Empty(t, country.Taggable())
}

func TestE2E_userCannotMutate(t *testing.T) {
	s := startServer(t)
	defer s.Close()

	_, err := s.connect("user").CreateCountry(context.Background(), "Portugal")
	var te *graphql.TransportError
	require.ErrorAs(t, err, &te)
	require.NotEmpty(t, te.Errors)
	assert.Contains(t, te.Errors[0].Message, "not enough rights")
}

func TestE2E_anonymousIsRejected(t *testing.T) {
	s := startServer(t)
	defer s.Close()

	_, err := s.connect("").FindCountry(context.Background(), 7)
	var te *graphql.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorContains(t, err, "401")
}

func TestE2E_createAndSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := startServer(t)
	defer s.Close()
	c := s.connect("admin")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	countries, err := c.OnCountryCreated(ctx)
	require.NoError(t, err)
	defer countries.Close()
	waitForSubscribers(t, s.srv.Events().Countries.Subscribers)

	portugal, err := c.CreateCountry(ctx, "Portugal")
	require.NoError(t, err)
	created, err := countries.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, portugal.ID(), created.ID())
	assert.Equal(t, "Portugal", created.Name())

	films, err := portugal.OnFilmCreated(ctx, func(p *cinema.FilmProjection) { p.Tags() })
	require.NoError(t, err)
	defer films.Close()
	waitForSubscribers(t, s.srv.Events().Films.Subscribers)

	// a film of another country must not reach the Portugal subscription
	spain, err := c.FetchCountry(ctx, 7)
	require.NoError(t, err)
	_, err = spain.CreateFilm(ctx, cinema.FilmInput{Title: "Julieta"}, nil)
	require.NoError(t, err)

	comedy := cinema.GenreComedy
	film, err := portugal.CreateFilm(ctx, cinema.FilmInput{Title: "Tabu", Genre: &comedy}, &cinema.TagInput{Value: "best"})
	require.NoError(t, err)

	event, err := films.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, film.ID(), event.ID())
	assert.Equal(t, "Tabu", event.Title())
	assert.Equal(t, cinema.GenreComedy, event.Genre())
	require.Len(t, event.Tags(), 1)
	assert.Equal(t, "best", event.Tags()[0].Value())

	lastName := "Cintra"
	actor, err := portugal.CreateActor(ctx, cinema.ActorInput{
		FirstName: "Luis",
		LastName:  &lastName,
		Birthday:  time.Date(1949, 4, 29, 0, 0, 0, 0, time.UTC),
		Gender:    cinema.GenderMale,
	}, nil)
	require.NoError(t, err)

	added, err := film.AddActor(ctx, actor.ID())
	require.NoError(t, err)
	assert.True(t, added)
	added, err = actor.AddFilm(ctx, film.ID())
	require.NoError(t, err)
	assert.False(t, added, "already cast")

	tagged, err := actor.Tag(ctx, "classic")
	require.NoError(t, err)
	assert.True(t, tagged)

	require.NoError(t, films.Close())
	_, err = films.Receive(ctx)
	require.ErrorIs(t, err, graphql.ErrSubscriptionStopped)
}

func waitForSubscribers(t *testing.T, count func() int) {
	t.Helper()
	// the server registers the subscriber after the start message
	require.Eventually(t, func() bool { return count() > 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestE2E_concurrentQueries(t *testing.T) {
	s := startServer(t)
	defer s.Close()
	c := s.connect("user")

	names := make([]string, 17)
	g, ctx := errgroup.WithContext(context.Background())
	for i := range names {
		i := i
		id := int64(i + 1)
		g.Go(func() error {
			country, err := c.FetchCountry(ctx, id)
			if err != nil {
				return err
			}
			names[i] = country.Name()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, "Spain", names[6])
	assert.Equal(t, "United States", names[16])
}
