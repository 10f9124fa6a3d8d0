package graphql_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/llehouerou/go-graphql-projection"
	"github.com/llehouerou/go-graphql-projection/projection"
	"github.com/llehouerou/go-graphql-projection/schema"
	"github.com/llehouerou/go-graphql-projection/types"
)

const userSDL = `
schema {
	query: Query
	mutation: Mutation
	subscription: Subscription
}
type Query {
	user(login: String!): User
}
type Mutation {
	rename(login: String!, name: String!): User!
}
type Subscription {
	userRenamed: User!
	countdown(from: Int!): Int!
}
type User {
	login: String!
	name: String
}
`

func userEnv(t *testing.T) *projection.Env {
	t.Helper()
	s, err := schema.LoadString("user.graphqls", userSDL)
	if err != nil {
		t.Fatal(err)
	}
	return projection.NewEnv(s, nil)
}

func userRequest(t *testing.T, op types.Operation, build func(root *projection.Node)) *projection.Request {
	t.Helper()
	root, err := projection.NewRoot(userEnv(t), op)
	if err != nil {
		t.Fatal(err)
	}
	build(root)
	req, err := projection.Compile(op, root)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func newTestClient(handler http.HandlerFunc) *graphql.Client {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", handler)
	return graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)
}

func TestExecute_Query(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		body := mustRead(req.Body)
		want := `{"query":"query($arg0: String!) { user(login: $arg0) { login name } }","variables":{"arg0":"gopher"}}` + "\n"
		if body != want {
			t.Errorf("got body: %v, want %v", body, want)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"user": {"login": "gopher", "name": "Gopher"}}}`)
	})

	req := userRequest(t, types.OperationQuery, func(root *projection.Node) {
		root.Argument("user", "login", "gopher")
	})
	obj, err := graphql.Execute(context.Background(), client, req)
	if err != nil {
		t.Fatal(err)
	}
	user := projection.Nested(obj, "user")
	if got, want := projection.Value[string](user, "name"), "Gopher"; got != want {
		t.Errorf("got name: %q, want: %q", got, want)
	}
}

func TestExecute_Mutation(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Query     string
			Variables map[string]any
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(in.Query, "mutation($arg0: String!, $arg1: String!)") {
			t.Errorf("got query: %q", in.Query)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"rename": {"login": "gopher"}}}`)
	})

	req := userRequest(t, types.OperationMutation, func(root *projection.Node) {
		root.Argument("rename", "login", "gopher")
		root.Argument("rename", "name", "Gordon")
		root.Open("rename").Minimize()
		root.Open("rename").Select("login")
	})
	obj, err := graphql.Execute(context.Background(), client, req)
	if err != nil {
		t.Fatal(err)
	}
	renamed := projection.Nested(obj, "rename")
	if renamed.Has("name") {
		t.Error("name was not selected and must not be present")
	}
	if _, err := renamed.Get("name"); !errors.As(err, new(*projection.PropertyNotSelectedError)) {
		t.Errorf("got error: %v, want: PropertyNotSelectedError", err)
	}
}

func TestExecute_serverErrors(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{
			"data": {"user": null},
			"errors": [
				{
					"message": "Could not resolve to a user with the login of 'nobody'",
					"path": ["user"],
					"locations": [{"line": 1, "column": 28}]
				}
			]
		}`)
	})

	req := userRequest(t, types.OperationQuery, func(root *projection.Node) {
		root.Argument("user", "login", "nobody")
	})
	obj, err := graphql.Execute(context.Background(), client, req)
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if obj != nil {
		t.Errorf("got partial result: %v, want: nil", obj)
	}

	var te *graphql.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got error type %T, want *graphql.TransportError", err)
	}
	if te.Document != req.Document {
		t.Errorf("got document: %q, want: %q", te.Document, req.Document)
	}
	if got, want := te.Variables["arg0"], "nobody"; got != want {
		t.Errorf("got variable: %v, want: %v", got, want)
	}
	if len(te.Errors) != 1 {
		t.Fatalf("got %d server errors, want 1", len(te.Errors))
	}
	if got, want := te.Errors.Error(), "Message: Could not resolve to a user with the login of 'nobody', Locations: [{Line:1 Column:28}]"; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}
}

func TestExecute_noData(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": null}`)
	})

	req := userRequest(t, types.OperationQuery, func(root *projection.Node) {
		root.Argument("user", "login", "gopher")
	})
	_, err := graphql.Execute(context.Background(), client, req)
	var te *graphql.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got error: %v, want *graphql.TransportError", err)
	}
	if got, want := te.Errors[0].GetCode(), graphql.ErrGraphQLDecode; got != want {
		t.Errorf("got code: %q, want: %q", got, want)
	}
}

func TestExecute_decodeError(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"user": {"login": "gopher"}}}`)
	})

	req := userRequest(t, types.OperationQuery, func(root *projection.Node) {
		root.Argument("user", "login", "gopher")
	})
	_, err := graphql.Execute(context.Background(), client, req)
	var de *projection.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got error: %v, want *projection.DecodeError", err)
	}
	if got, want := de.Path, "user.name"; got != want {
		t.Errorf("got path: %q, want: %q", got, want)
	}
}

func TestExecute_rejectsSubscription(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request expected")
	})
	req := userRequest(t, types.OperationSubscription, func(root *projection.Node) {
		root.Open("userRenamed")
	})
	if _, err := graphql.Execute(context.Background(), client, req); err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
}

func TestClient_errorStatusCode(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "important message", http.StatusInternalServerError)
	})

	_, err := client.ExecuteQuery(context.Background(), "query { user(login: \"x\") { login } }", nil)
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if got, want := err.Error(), `Message: 500 Internal Server Error; body: "important message\n", Locations: []`; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}
	gqlErr := err.(graphql.Errors)
	if got, want := gqlErr[0].GetCode(), graphql.ErrRequestError; got != want {
		t.Errorf("got code: %v, want: %v", got, want)
	}
	if gqlErr[0].GetInternalExtensions() != nil {
		t.Errorf("expected empty internal error")
	}

	// debug mode keeps the request that failed
	_, err = client.WithDebug(true).ExecuteQuery(context.Background(), "query { user(login: \"x\") { login } }", nil)
	if !errors.As(err, &graphql.Errors{}) {
		t.Fatalf("the error type should be graphql.Errors")
	}
	internal := err.(graphql.Errors)[0].GetInternalExtensions()
	if internal == nil || internal.Request == nil {
		t.Fatal("expected request information in debug mode")
	}
	if got, want := internal.Request.Body, `{"query":"query { user(login: \"x\") { login } }"}`+"\n"; got != want {
		t.Errorf("got body: %v, want: %v", got, want)
	}
}

// Test that an empty (but non-nil) variables map is
// handled no differently than a nil variables map.
func TestClient_emptyVariables(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		body := mustRead(req.Body)
		if got, want := body, `{"query":"query { me }"}`+"\n"; got != want {
			t.Errorf("got body: %v, want %v", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"me": "gopher"}}`)
	})

	data, err := client.ExecuteQuery(context.Background(), "query { me }", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"me": "gopher"}`; got != want {
		t.Errorf("got data: %s, want: %s", got, want)
	}
}

func TestClient_gzipResponse(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(w)
		defer func() { _ = gzWriter.Close() }()
		_, _ = gzWriter.Write([]byte(`{"data":{"user":{"login":"gopher","name":"Bob"}}}`))
	})

	req := userRequest(t, types.OperationQuery, func(root *projection.Node) {
		root.Argument("user", "login", "gopher")
	})
	obj, err := graphql.Execute(context.Background(), client, req)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := projection.Value[string](projection.Nested(obj, "user"), "name"), "Bob"; got != want {
		t.Errorf("got name: %q, want: %q", got, want)
	}
}

func TestClient_WithLog(t *testing.T) {
	var logged []string
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	quiet := client
	client = client.WithLog(func(args ...any) {
		for _, a := range args {
			if s, ok := a.(string); ok {
				logged = append(logged, s)
			}
		}
	})

	_, _ = quiet.ExecuteQuery(context.Background(), "query { me }", nil)
	if len(logged) != 0 {
		t.Fatalf("original client should not log, got %v", logged)
	}
	_, _ = client.ExecuteQuery(context.Background(), "query { me }", nil)
	if len(logged) == 0 || !strings.Contains(strings.Join(logged, " "), "503") {
		t.Errorf("expected the failure to be logged, got %v", logged)
	}
}

func TestClient_requestModifier(t *testing.T) {
	var gotUser, gotChain string
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", got)
		}
		gotUser, _, _ = req.BasicAuth()
		gotChain = req.Header.Get("X-Chain")
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"me": "gopher"}}`)
	})

	modified := client.
		WithDebug(true).
		WithRequestModifier(func(r *http.Request) {
			r.SetBasicAuth("admin", "secret")
			r.Header.Set("X-Chain", "test")
		})
	if modified == client {
		t.Error("chained client should be a new instance")
	}

	if _, err := modified.ExecuteQuery(context.Background(), "query { me }", nil); err != nil {
		t.Fatal(err)
	}
	if gotUser != "admin" || gotChain != "test" {
		t.Errorf("modified client sent user %q, X-Chain %q", gotUser, gotChain)
	}

	if _, err := client.ExecuteQuery(context.Background(), "query { me }", nil); err != nil {
		t.Fatal(err)
	}
	if gotUser != "" || gotChain != "" {
		t.Errorf("original client should not have the modifier, sent user %q, X-Chain %q", gotUser, gotChain)
	}
}

func TestExecute_debugKeepsExchange(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": null, "errors": [{"message": "not enough rights"}]}`)
	})
	req := userRequest(t, types.OperationQuery, func(root *projection.Node) {
		root.Argument("user", "login", "gopher")
	})

	tests := []struct {
		debug bool
	}{
		{debug: false},
		{debug: true},
	}
	for _, tt := range tests {
		_, err := graphql.Execute(context.Background(), client.WithDebug(tt.debug), req)
		var te *graphql.TransportError
		if !errors.As(err, &te) {
			t.Fatalf("debug=%v: got error: %v, want *graphql.TransportError", tt.debug, err)
		}
		if !tt.debug {
			if te.Debug != nil {
				t.Errorf("debug=%v: got exchange %+v, want nil", tt.debug, te.Debug)
			}
			if strings.Contains(te.Error(), "response:") {
				t.Errorf("debug=%v: error should not show the response: %v", tt.debug, te)
			}
			continue
		}
		if te.Debug == nil || te.Debug.Request == nil || te.Debug.Response == nil {
			t.Fatalf("debug=%v: got exchange %+v, want request and response", tt.debug, te.Debug)
		}
		if !strings.Contains(te.Debug.Request.Body, `"variables":{"arg0":"gopher"}`) {
			t.Errorf("debug=%v: got request body %q", tt.debug, te.Debug.Request.Body)
		}
		if got := te.Debug.Response.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("debug=%v: got response Content-Type %q", tt.debug, got)
		}
		if !strings.Contains(te.Error(), `response: {"data": null, "errors": [{"message": "not enough rights"}]}`) {
			t.Errorf("debug=%v: error should show the response: %v", tt.debug, te)
		}
	}
}

func TestExecute_invalidJSON(t *testing.T) {
	client := newTestClient(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{invalid json}`)
	})
	_, err := client.ExecuteQuery(context.Background(), "query { me }", nil)
	var errs graphql.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("got error: %v, want graphql.Errors", err)
	}
	if len(errs) != 1 || errs[0].GetCode() != graphql.ErrJsonDecode {
		t.Errorf("expected error code %q, got %v", graphql.ErrJsonDecode, errs)
	}
}

func TestTransportError_Error(t *testing.T) {
	err := &graphql.TransportError{
		Document:  "query($arg0: ID!) { country(id: $arg0) { id } }",
		Variables: map[string]any{"arg1": "x", "arg0": 7},
		Err:       errors.New("connection refused"),
	}
	want := "graphql exchange failed: connection refused\n" +
		"  document: query($arg0: ID!) { country(id: $arg0) { id } }\n" +
		"  variables: $arg0=7 $arg1=x"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("TransportError should unwrap to its cause")
	}
}

// localRoundTripper is an http.RoundTripper that executes HTTP transactions
// by using handler directly, instead of going over an HTTP connection.
type localRoundTripper struct {
	handler http.Handler
}

func (l localRoundTripper) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	w := httptest.NewRecorder()
	l.handler.ServeHTTP(w, req)
	return w.Result(), nil
}

func mustRead(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func mustWrite(w io.Writer, s string) {
	_, err := io.WriteString(w, s)
	if err != nil {
		panic(err)
	}
}
