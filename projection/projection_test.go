package projection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-graphql-projection/projection"
	"github.com/llehouerou/go-graphql-projection/types"
)

func requireNotSelected(t *testing.T, typ, field string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var notSelected *projection.PropertyNotSelectedError
		require.ErrorAs(t, err, &notSelected)
		assert.Equal(t, typ, notSelected.Type)
		assert.Equal(t, field, notSelected.Field)
	}()
	fn()
}

func TestRoundTrip_SelectedFieldsOnly(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	root.Open("country")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t, `query($arg0: ID!) { country(id: $arg0) { id name } }`, req.Document)
	requireValidDocument(t, req.Document)

	obj, err := projection.Decode(req, []byte(`{"country": {"id": 7, "name": "Spain"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Query", obj.Typename())

	country := projection.Nested(obj, "country")
	require.NotNil(t, country)
	assert.Equal(t, "Country", country.Typename())
	assert.Equal(t, []string{"id", "name"}, country.Fields())
	assert.Equal(t, int64(7), projection.Value[int64](country, "id"))
	assert.Equal(t, "Spain", projection.Value[string](country, "name"))

	_, err = country.Get("films")
	var notSelected *projection.PropertyNotSelectedError
	require.ErrorAs(t, err, &notSelected)
	assert.Equal(t, "Country", notSelected.Type)
	assert.Equal(t, "films", notSelected.Field)
	assert.Contains(t, err.Error(), `add "films" to the projection`)

	requireNotSelected(t, "Country", "films", func() {
		projection.NestedList(country, "films")
	})
}

func TestCompile_Idempotent(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	c := root.Open("country")
	c.SetSelection("films", "limit", 3)
	c.Open("films").Open("tags")

	first := compile(t, types.OperationQuery, root)
	second := compile(t, types.OperationQuery, root)
	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, first.Variables, second.Variables)
}

func TestCompile_DeclarationOrderNotInsertionOrder(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 1)
	c := root.Open("country")
	c.Minimize()
	c.Open("native").On("Actor").Minimize()
	c.Argument("film", "id", 2)
	c.Select("name")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: ID!, $arg1: ID!) { country(id: $arg0) { id name film(id: $arg1) { id title genre countryId } native { __typename ... on Actor { id birthday countryId } } } }`,
		req.Document)
	requireValidDocument(t, req.Document)
}

func TestMinimize_KeepsOnlyRequiredFields(t *testing.T) {
	env := newEnv(t)

	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	root.Open("country").Minimize()
	req := compile(t, types.OperationQuery, root)
	assert.Equal(t, `query($arg0: ID!) { country(id: $arg0) { id } }`, req.Document)

	root = newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	root.Open("taggable").On("Actor").Minimize()
	req = compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: String!) { taggable(tag: $arg0) { id __typename ... on Actor { birthday countryId } } }`,
		req.Document)
	requireValidDocument(t, req.Document)
}

func TestMinimize_EmptySelectionUsesTypename(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	root.Open("taggable").Open("tags").Minimize()

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: String!) { taggable(tag: $arg0) { id tags { __typename } __typename } }`,
		req.Document)
	requireValidDocument(t, req.Document)

	obj, err := projection.Decode(req, []byte(`{"taggable": [
		{"__typename": "Film", "id": 1, "tags": [{"__typename": "Tag"}]}
	]}`))
	require.NoError(t, err)
	tag := projection.NestedList(projection.NestedList(obj, "taggable")[0], "tags")[0]
	assert.Empty(t, tag.Fields())
}

func TestFragments_DecodeConcreteType(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	tg := root.Open("taggable")
	tg.Open("tags")
	tg.On("Film")
	actor := tg.On("Actor")
	actor.Minimize()
	actor.Select("firstName")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: String!) { taggable(tag: $arg0) { id tags { value } __typename ... on Film { title genre countryId } ... on Actor { firstName birthday countryId } } }`,
		req.Document)
	requireValidDocument(t, req.Document)

	obj, err := projection.Decode(req, []byte(`{"taggable": [
		{"__typename": "Actor", "id": 3, "tags": [{"value": "best"}], "firstName": "Pedro", "birthday": "1949-09-25", "countryId": 7},
		{"__typename": "Film", "id": 1, "tags": [], "title": "Talk to Her", "genre": "DRAMA", "countryId": 7}
	]}`))
	require.NoError(t, err)

	items := projection.NestedList(obj, "taggable")
	require.Len(t, items, 2)

	a := items[0]
	assert.Equal(t, "Actor", a.Typename())
	assert.Equal(t, []string{"id", "tags", "firstName", "birthday", "countryId"}, a.Fields())
	assert.Equal(t, "Pedro", projection.Value[string](a, "firstName"))
	assert.Equal(t, time.Date(1949, 9, 25, 0, 0, 0, 0, time.UTC), projection.Value[time.Time](a, "birthday"))
	assert.Equal(t, "best", projection.Value[string](projection.NestedList(a, "tags")[0], "value"))
	requireNotSelected(t, "Actor", "title", func() { projection.Value[string](a, "title") })
	requireNotSelected(t, "Actor", "lastName", func() { projection.Pointer[string](a, "lastName") })

	f := items[1]
	assert.Equal(t, "Film", f.Typename())
	assert.Equal(t, "DRAMA", projection.Enum[genre](f, "genre").String())
	assert.Empty(t, projection.NestedList(f, "tags"))
	requireNotSelected(t, "Film", "firstName", func() { projection.Value[string](f, "firstName") })
}

func (g genre) String() string { return string(g) }

func TestFragments_NoFragmentSelectsInterfaceFieldsOnly(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	root.Open("taggable")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t, `query($arg0: String!) { taggable(tag: $arg0) { id __typename } }`, req.Document)

	obj, err := projection.Decode(req, []byte(`{"taggable": [{"__typename": "Film", "id": 1}]}`))
	require.NoError(t, err)
	film := projection.NestedList(obj, "taggable")[0]
	assert.Equal(t, "Film", film.Typename())
	assert.Equal(t, []string{"id"}, film.Fields())
	assert.Len(t, film.Projection(), 1)
}

func TestFragments_WidenInterfaceField(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	tg := root.Open("taggable")
	tg.Open("tags").Minimize()
	film := tg.On("Film")
	film.Minimize()
	film.Open("tags")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: String!) { taggable(tag: $arg0) { id tags { __typename } __typename ... on Film { tags { value } } } }`,
		req.Document)
	requireValidDocument(t, req.Document)

	obj, err := projection.Decode(req, []byte(`{"taggable": [
		{"__typename": "Film", "id": 1, "tags": [{"__typename": "Tag", "value": "best"}]},
		{"__typename": "Actor", "id": 3, "tags": [{"__typename": "Tag"}]}
	]}`))
	require.NoError(t, err)
	items := projection.NestedList(obj, "taggable")
	require.Len(t, items, 2)
	assert.Equal(t, "best", projection.Value[string](projection.NestedList(items[0], "tags")[0], "value"))
	requireNotSelected(t, "Tag", "value", func() {
		projection.Value[string](projection.NestedList(items[1], "tags")[0], "value")
	})
}

func TestFragments_SameShapeIsNotRepeated(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	tg := root.Open("taggable")
	tg.Argument("tags", "prefix", "b")
	film := tg.On("Film")
	film.Minimize()
	film.Argument("tags", "prefix", "b")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: String!, $arg1: String) { taggable(tag: $arg0) { id tags(prefix: $arg1) { value } __typename ... on Film { __typename } } }`,
		req.Document)
	requireValidDocument(t, req.Document)
}

func TestFragments_ConflictingArguments(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("taggable", "tag", "best")
	tg := root.Open("taggable")
	tg.Argument("tags", "prefix", "b")
	tg.On("Film").Argument("tags", "prefix", "c")

	_, err := projection.Compile(types.OperationQuery, root)
	var buildErr *projection.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "Film", buildErr.Type)
	assert.Equal(t, "tags", buildErr.Field)
	assert.Contains(t, err.Error(), "conflicting selection")
}

func TestFragments_Union(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	c := root.Open("country")
	c.Minimize()
	native := c.Open("native")
	native.On("Film").Minimize()

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: ID!) { country(id: $arg0) { id native { __typename ... on Film { id } } } }`,
		req.Document)
	requireValidDocument(t, req.Document)

	obj, err := projection.Decode(req, []byte(`{"country": {"id": 7, "native": [
		{"__typename": "Film", "id": 1},
		{"__typename": "Actor"}
	]}}`))
	require.NoError(t, err)
	items := projection.NestedList(projection.Nested(obj, "country"), "native")
	require.Len(t, items, 2)
	assert.Equal(t, "Film", items[0].Typename())
	assert.Equal(t, int64(1), projection.Value[int64](items[0], "id"))
	assert.Equal(t, "Actor", items[1].Typename())
	assert.Empty(t, items[1].Fields())
}

func TestArgumentHoisting_Deterministic(t *testing.T) {
	env := newEnv(t)
	build := func(id int64) *projection.Request {
		root := newQuery(t, env)
		root.Argument("country", "id", id)
		root.Open("country")
		return compile(t, types.OperationQuery, root)
	}

	one := build(1)
	other := build(99)
	assert.Equal(t, one.Document, other.Document)
	assert.Equal(t, map[string]any{"arg0": int64(1)}, one.VariableMap())
	assert.Equal(t, map[string]any{"arg0": int64(99)}, other.VariableMap())
}

func TestArgumentHoisting_FirstEncounteredOrder(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.SetSelection("countries", "limit", 2)
	countries := root.Open("countries")
	countries.SetSelection("films", "title", "Vol")
	countries.Open("films").Open("country").Argument("film", "id", 5)
	root.Argument("taggable", "tag", "best")
	root.Open("taggable")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: Int!, $arg1: String, $arg2: ID!, $arg3: String!) { `+
			`countries(limit: $arg0) { id name films(title: $arg1) { id title genre countryId country { id name film(id: $arg2) { id title genre countryId } } } } `+
			`taggable(tag: $arg3) { id __typename } }`,
		req.Document)
	requireValidDocument(t, req.Document)
	assert.Equal(t, []projection.Variable{
		{Name: "arg0", Type: "Int!", Value: 2},
		{Name: "arg1", Type: "String", Value: "Vol"},
		{Name: "arg2", Type: "ID!", Value: int64(5)},
		{Name: "arg3", Type: "String!", Value: "best"},
	}, req.Variables)
}

func TestEndToEnd_CountryWithFilms(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	c := root.Open("country")
	c.Minimize()
	c.Select("name")
	films := c.Open("films")
	films.Minimize()
	films.Select("title")
	films.Select("genre")

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: ID!) { country(id: $arg0) { id name films { id title genre } } }`,
		req.Document)
	assert.Equal(t, map[string]any{"arg0": int64(7)}, req.VariableMap())

	obj, err := projection.Decode(req, []byte(
		`{"country": {"id":7,"name":"Spain","films":[{"id":1,"title":"Talk to Her","genre":"DRAMA"}]}}`))
	require.NoError(t, err)

	country := projection.Nested(obj, "country")
	assert.Equal(t, "Spain", projection.Value[string](country, "name"))
	list := projection.NestedList(country, "films")
	require.Len(t, list, 1)
	assert.Equal(t, "Talk to Her", projection.Value[string](list[0], "title"))
	assert.Equal(t, genreDrama, projection.Enum[genre](list[0], "genre"))
	assert.Equal(t, int64(1), projection.Value[int64](list[0], "id"))
	requireNotSelected(t, "Film", "countryId", func() { projection.Value[int64](list[0], "countryId") })
}

func TestSelectionArguments(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	c := root.Open("country")
	c.SetSelection("films", "limit", 5)
	c.SetSelection("films", "genre", genreComedy)
	c.SetSelection("films", "limit", 3)
	c.SetSelection("films", "title", "x")
	c.SetSelection("films", "title", nil)

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t,
		`query($arg0: ID!, $arg1: Genre, $arg2: Int!) { country(id: $arg0) { id name films(genre: $arg1, limit: $arg2) { id title genre countryId } } }`,
		req.Document)
	requireValidDocument(t, req.Document)
	assert.Equal(t, map[string]any{"arg0": int64(7), "arg1": "COMEDY", "arg2": 3}, req.VariableMap())
}

func TestOperationOptions(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Argument("country", "id", 7)
	root.Open("country")

	req := compile(t, types.OperationQuery, root, projection.OperationName("CountryByID"))
	assert.Equal(t, `query CountryByID($arg0: ID!) { country(id: $arg0) { id name } }`, req.Document)

	req = compile(t, types.OperationQuery, root,
		projection.OperationName("CountryByID"),
		projection.OperationDirective("@cached"))
	assert.Equal(t, `query CountryByID($arg0: ID!) @cached { country(id: $arg0) { id name } }`, req.Document)
}

func TestCompile_NoVariables(t *testing.T) {
	env := newEnv(t)
	root := newQuery(t, env)
	root.Open("countries").Minimize()

	req := compile(t, types.OperationQuery, root)
	assert.Equal(t, `query { countries { id } }`, req.Document)
	assert.Nil(t, req.VariableMap())
}

func TestMutation_InputObject(t *testing.T) {
	env := newEnv(t)
	root, err := projection.NewRoot(env, types.OperationMutation)
	require.NoError(t, err)
	root.Argument("createFilm", "countryId", 7)
	root.Argument("createFilm", "film", filmInput{title: "Volver"})
	root.Open("createFilm")

	req := compile(t, types.OperationMutation, root)
	assert.Equal(t,
		`mutation($arg0: ID!, $arg1: FilmInput!) { createFilm(countryId: $arg0, film: $arg1) { id title genre countryId } }`,
		req.Document)
	requireValidDocument(t, req.Document)
	assert.Equal(t, map[string]any{
		"arg0": int64(7),
		"arg1": map[string]any{"title": "Volver"},
	}, req.VariableMap())

	comedy := genreComedy
	root, err = projection.NewRoot(env, types.OperationMutation)
	require.NoError(t, err)
	root.Argument("createFilm", "countryId", 7)
	root.Argument("createFilm", "film", &filmInput{title: "Volver", genre: &comedy})
	req = compile(t, types.OperationMutation, root)
	assert.Equal(t, map[string]any{"title": "Volver", "genre": "COMEDY"}, req.VariableMap()["arg1"])
}

func TestNewRoot_MissingOperationType(t *testing.T) {
	env := newEnv(t)
	_, err := projection.NewRoot(env, types.OperationSubscription)
	assert.ErrorContains(t, err, "schema has no subscription type")

	_, err = projection.NewRoot(env, types.Operation("fetch"))
	assert.Error(t, err)

	_, err = projection.New(env, "Genre")
	assert.Error(t, err)
}
