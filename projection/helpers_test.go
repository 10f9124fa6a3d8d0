package projection_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/go-graphql-projection/projection"
	"github.com/llehouerou/go-graphql-projection/scalar"
	"github.com/llehouerou/go-graphql-projection/schema"
	"github.com/llehouerou/go-graphql-projection/types"
)

const cinemaSDL = `
directive @primaryKey on FIELD_DEFINITION
directive @required on FIELD_DEFINITION
directive @default on FIELD_DEFINITION
directive @selection on FIELD_DEFINITION

scalar Date

schema {
  query: Query
  mutation: Mutation
}

type Query {
  country(id: ID!): Country
  countries(name: String, limit: Int! = 10, offset: Int! = 0): [Country!]! @selection
  taggable(tag: String!): [Taggable!]!
}

type Mutation {
  createFilm(countryId: ID!, film: FilmInput!): Film!
}

type Country {
  id: ID! @primaryKey
  name: String!
  film(id: ID!): Film
  films(title: String, genre: Genre, limit: Int! = 10, offset: Int! = 0): [Film!]! @selection
  native: [Native!]!
}

interface Taggable {
  id: ID! @primaryKey
  tags(prefix: String): [Tag!]!
}

type Film implements Taggable {
  id: ID! @primaryKey
  title: String!
  genre: Genre!
  countryId: ID!
  country: Country!
  tags(prefix: String): [Tag!]!
}

type Actor implements Taggable {
  id: ID! @primaryKey
  firstName: String!
  lastName: String
  birthday: Date! @required
  countryId: ID! @required
  tags(prefix: String): [Tag!]!
}

type Tag {
  value: String!
}

union Native = Film | Actor

enum Genre {
  DRAMA
  COMEDY
  THRILLER
}

input FilmInput {
  title: String!
  genre: Genre = DRAMA
}
`

type genre string

const (
	genreDrama  genre = "DRAMA"
	genreComedy genre = "COMEDY"
)

type filmInput struct {
	title string
	genre *genre
}

func (f filmInput) InputFields() map[string]any {
	m := map[string]any{"title": f.title}
	if f.genre != nil {
		m["genre"] = *f.genre
	}
	return m
}

func newEnv(t *testing.T) *projection.Env {
	t.Helper()
	s, err := schema.LoadString("cinema.graphqls", cinemaSDL)
	require.NoError(t, err)
	reg := scalar.NewRegistry().
		Register("ID", scalar.Int64ID).
		Register("Date", scalar.Date)
	env := projection.NewEnv(s, reg)
	require.NoError(t, env.Validate())
	return env
}

func newQuery(t *testing.T, env *projection.Env) *projection.Node {
	t.Helper()
	root, err := projection.NewRoot(env, types.OperationQuery)
	require.NoError(t, err)
	return root
}

func compile(t *testing.T, op types.Operation, root *projection.Node, opts ...projection.Option) *projection.Request {
	t.Helper()
	req, err := projection.Compile(op, root, opts...)
	require.NoError(t, err)
	return req
}

// requireValidDocument checks a compiled document against the schema.
func requireValidDocument(t *testing.T, doc string) {
	t.Helper()
	s := gqlparser.MustLoadSchema(&ast.Source{Name: "cinema.graphqls", Input: cinemaSDL})
	_, errs := gqlparser.LoadQuery(s, doc)
	require.Empty(t, errs, doc)
}
