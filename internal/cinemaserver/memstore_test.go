package cinemaserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func filmTitles(films []*Film) []string {
	out := make([]string, len(films))
	for i, f := range films {
		out[i] = f.Title
	}
	return out
}

func TestDemoStore_lookups(t *testing.T) {
	ctx := context.Background()
	s := NewDemoStore()

	c, err := s.Country(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Spain", c.Name)

	missing, err := s.Country(ctx, 1000)
	require.NoError(t, err)
	assert.Nil(t, missing)

	f, err := s.Film(ctx, 18)
	require.NoError(t, err)
	assert.Equal(t, "All About My Mother", f.Title)
	assert.Equal(t, []string{"best", "oscar"}, f.Tags)

	a, err := s.Actor(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "Penelope", a.FirstName)
	assert.Equal(t, "Cruz", *a.LastName)
}

func TestDemoStore_filters(t *testing.T) {
	ctx := context.Background()
	s := NewDemoStore()

	tests := []struct {
		name   string
		filter FilmFilter
		want   []string
	}{
		{
			name:   "by country",
			filter: FilmFilter{CountryID: int64p(16)},
			want:   []string{"Trainspotting"},
		},
		{
			name:   "title ignores case",
			filter: FilmFilter{CountryID: int64p(7), Title: "VOL"},
			want:   []string{"Volver"},
		},
		{
			name:   "genre",
			filter: FilmFilter{Genre: "HORROR"},
			want:   []string{"Psycho"},
		},
		{
			name:   "actor",
			filter: FilmFilter{ActorID: int64p(25)},
			want:   []string{"All About My Mother", "Volver"},
		},
		{
			name:   "tag",
			filter: FilmFilter{Tag: "classic"},
			want:   []string{"The Godfather", "Psycho"},
		},
		{
			name:   "page",
			filter: FilmFilter{CountryID: int64p(7), Page: Page{Limit: 2, Offset: 1}},
			want:   []string{"Volver", "The Skin I Live In"},
		},
		{
			name:   "negative limit is unlimited",
			filter: FilmFilter{CountryID: int64p(7), Page: Page{Limit: -1}},
			want: []string{
				"All About My Mother", "Volver", "The Skin I Live In",
				"Women on the Verge of a Nervous Breakdown",
			},
		},
		{
			name:   "zero limit is unlimited",
			filter: FilmFilter{CountryID: int64p(7), Page: Page{Limit: 0, Offset: 2}},
			want: []string{
				"The Skin I Live In", "Women on the Verge of a Nervous Breakdown",
			},
		},
		{
			name:   "offset past the end",
			filter: FilmFilter{Page: Page{Offset: 100}},
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			films, err := s.Films(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filmTitles(films))
		})
	}

	actors, err := s.Actors(ctx, ActorFilter{FilmID: int64p(21), Gender: "FEMALE"})
	require.NoError(t, err)
	require.Len(t, actors, 1)
	assert.Equal(t, "Rossy", actors[0].FirstName)

	countries, err := s.Countries(ctx, CountryFilter{Name: "united states"})
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, int64(17), countries[0].ID)
}

func TestMemStore_writes(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	c, err := s.CreateCountry(ctx, "Spain")
	require.NoError(t, err)

	_, err = s.CreateFilm(ctx, Film{CountryID: 99, Title: "Nowhere"})
	assert.ErrorIs(t, err, ErrNoSuchEntity)

	f, err := s.CreateFilm(ctx, Film{CountryID: c.ID, Title: "Volver", Genre: "DRAMA", Tags: []string{"best"}})
	require.NoError(t, err)
	a, err := s.CreateActor(ctx, Actor{CountryID: c.ID, FirstName: "Penelope", Gender: "FEMALE"})
	require.NoError(t, err)

	ok, err := s.Associate(ctx, f.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Associate(ctx, f.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second association is a no-op")

	_, err = s.Associate(ctx, f.ID, 1000)
	assert.ErrorIs(t, err, ErrNoSuchEntity)

	ok, err = s.TagFilm(ctx, f.ID, "best")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.TagActor(ctx, a.ID, "best")
	require.NoError(t, err)
	assert.True(t, ok)

	// returned values are copies
	f.Tags[0] = "changed"
	stored, err := s.Film(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"best"}, stored.Tags)
}
