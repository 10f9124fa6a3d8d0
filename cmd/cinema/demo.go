package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	graphql "github.com/llehouerou/go-graphql-projection"
	"github.com/llehouerou/go-graphql-projection/cinema"
)

type demoOptions struct {
	url      string
	user     string
	password string
	wait     time.Duration
	debug    bool
}

func newDemoCommand() *cobra.Command {
	var opts demoOptions
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the example client flows against a cinema server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "http://localhost:8080/graphql", "GraphQL endpoint")
	cmd.Flags().StringVarP(&opts.user, "user", "u", "admin", "Basic auth user")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "admin", "Basic auth password")
	cmd.Flags().DurationVar(&opts.wait, "wait", 5*time.Second, "How long to wait for subscription events")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Show the server response of a failed request")
	return cmd
}

func (o demoOptions) transport(httpClient *http.Client) graphql.Transport {
	client := graphql.NewClient(o.url, httpClient).
		WithDebug(o.debug).
		WithRequestModifier(func(r *http.Request) {
			r.SetBasicAuth(o.user, o.password)
		})
	credentials := base64.StdEncoding.EncodeToString([]byte(o.user + ":" + o.password))
	sc := graphql.NewSubscriptionClient(o.url).
		WithHTTPClient(httpClient).
		WithHeader("Authorization", "Basic "+credentials)
	return graphql.Transport{Client: client, SubscriptionClient: sc}
}

func runDemo(ctx context.Context, out io.Writer, opts demoOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c := cinema.NewContext(opts.transport(http.DefaultClient))

	steps := []struct {
		name string
		run  func(context.Context, io.Writer, *cinema.Context, demoOptions) error
	}{
		{"fetch a country", demoFetch},
		{"minimized projections", demoMinimized},
		{"taggable fragments", demoTaggable},
		{"create and subscribe", demoCreate},
	}
	for _, step := range steps {
		fmt.Fprintf(out, "== %s\n", step.name)
		if err := step.run(ctx, out, c, opts); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func demoFetch(ctx context.Context, out io.Writer, c *cinema.Context, _ demoOptions) error {
	country, err := c.FetchCountry(ctx, 7, func(p *cinema.CountryProjection) {
		p.Fields(func(s *cinema.CountryFieldsSelection) { s.SetKeys([]string{"name"}) })
		p.Films(func(f *cinema.CountryFilmsQuery) {
			f.SetLimit(3)
			f.Actors(func(a *cinema.FilmActorsQuery) { a.Minimize(); a.FirstName(); a.LastName() })
		})
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "country %d: %s %v\n", country.ID(), country.Name(), country.Fields())
	for _, f := range country.Films() {
		fmt.Fprintf(out, "  film %d: %s (%s)\n", f.ID(), f.Title(), f.Genre())
		for _, a := range f.Actors() {
			fmt.Fprintf(out, "    actor %d: %s\n", a.ID(), fullName(a))
		}
	}
	return nil
}

func demoMinimized(ctx context.Context, out io.Writer, c *cinema.Context, _ demoOptions) error {
	country, err := c.FetchCountry(ctx, 17, func(p *cinema.CountryProjection) {
		p.Minimize()
		p.Actors(func(a *cinema.CountryActorsQuery) {
			a.SetGender(cinema.GenderMale)
			a.Minimize()
			a.Films(func(f *cinema.ActorFilmsQuery) { f.Minimize(); f.Title() })
		})
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "country %d\n", country.ID())
	for _, a := range country.Actors() {
		titles := make([]string, 0, len(a.Films()))
		for _, f := range a.Films() {
			titles = append(titles, f.Title())
		}
		fmt.Fprintf(out, "  actor %d born %s: %s\n", a.ID(), a.Birthday().Format(time.DateOnly), strings.Join(titles, ", "))
	}
	return nil
}

func demoTaggable(ctx context.Context, out io.Writer, c *cinema.Context, _ demoOptions) error {
	res, err := c.Query(ctx, func(q *cinema.QueryProjection) {
		q.Taggable("best", func(t *cinema.TaggableProjection) {
			t.Tags()
			t.OnFilm(func(f *cinema.FilmProjection) { f.Minimize(); f.Title() })
			t.OnActor(func(a *cinema.ActorProjection) { a.Minimize(); a.FirstName(); a.LastName() })
		})
	})
	if err != nil {
		return err
	}
	for _, item := range res.Taggable() {
		tags := make([]string, 0, len(item.Tags()))
		for _, t := range item.Tags() {
			tags = append(tags, t.Value())
		}
		switch v := item.(type) {
		case *cinema.Film:
			fmt.Fprintf(out, "  film %d: %s %v\n", v.ID(), v.Title(), tags)
		case *cinema.Actor:
			fmt.Fprintf(out, "  actor %d: %s %v\n", v.ID(), fullName(v), tags)
		}
	}
	return nil
}

func demoCreate(ctx context.Context, out io.Writer, c *cinema.Context, opts demoOptions) error {
	ctx, cancel := context.WithTimeout(ctx, opts.wait+10*time.Second)
	defer cancel()

	country, err := c.CreateCountry(ctx, "Demo "+uuid.NewString()[:8])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created country %d: %s\n", country.ID(), country.Name())

	films, err := country.OnFilmCreated(ctx)
	if err != nil {
		return err
	}
	defer films.Close()
	// graphql-ws has no acknowledgement for start, give the server a moment
	time.Sleep(100 * time.Millisecond)

	genre := cinema.GenreComedy
	film, err := country.CreateFilm(ctx, cinema.FilmInput{Title: "Demo Film", Genre: &genre}, &cinema.TagInput{Value: "demo"})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created film %d: %s\n", film.ID(), film.Title())

	lastName := "Actor"
	actor, err := country.CreateActor(ctx, cinema.ActorInput{
		FirstName: "Demo",
		LastName:  &lastName,
		Birthday:  time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:    cinema.GenderFemale,
	}, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created actor %d: %s\n", actor.ID(), fullName(actor))

	if _, err := film.AddActor(ctx, actor.ID()); err != nil {
		return err
	}
	if _, err := actor.Tag(ctx, "demo"); err != nil {
		return err
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, opts.wait)
	defer cancelWait()
	event, err := films.Receive(waitCtx)
	switch {
	case err == nil:
		fmt.Fprintf(out, "received filmCreated: %d %s\n", event.ID(), event.Title())
	case waitCtx.Err() != nil:
		fmt.Fprintf(out, "no filmCreated event within %s\n", opts.wait)
	default:
		return err
	}

	cast, err := film.Refresh(ctx, func(p *cinema.FilmProjection) {
		p.Minimize()
		p.Actors(func(a *cinema.FilmActorsQuery) { a.Minimize(); a.FirstName() })
	})
	if err != nil {
		return err
	}
	for _, a := range cast.Actors() {
		fmt.Fprintf(out, "  cast: %s\n", a.FirstName())
	}
	return nil
}

func fullName(a *cinema.Actor) string {
	if last := a.LastName(); last != nil {
		return a.FirstName() + " " + *last
	}
	return a.FirstName()
}
