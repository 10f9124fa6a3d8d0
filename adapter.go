package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/llehouerou/go-graphql-projection/projection"
	"github.com/llehouerou/go-graphql-projection/types"
)

// Adapter carries compiled documents to a GraphQL server and returns the
// "data" member of the response. A response with server errors is an
// error; implementations should return it as Errors.
type Adapter interface {
	ExecuteQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
	ExecuteMutation(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// SubscriptionAdapter opens subscription streams.
type SubscriptionAdapter interface {
	ExecuteSubscription(ctx context.Context, query string, variables map[string]any) (Stream, error)
}

// Stream is an open subscription.
type Stream interface {
	// Receive blocks until the next event and returns its "data" member.
	// It returns io.EOF once the server completed the subscription.
	Receive(ctx context.Context) (json.RawMessage, error)
	// Close stops the subscription and releases the transport.
	Close() error
}

// TransportError reports a failed exchange. It keeps the document and the
// variables that were sent. Errors holds the server error list when the
// server answered with one; Err is the underlying failure.
//
// Debug holds the HTTP exchange when the Client runs in debug mode.
type TransportError struct {
	Document  string
	Variables map[string]any
	Errors    Errors
	Debug     *InternalExtensions
	Err       error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("graphql exchange failed: ")
	b.WriteString(e.Err.Error())
	b.WriteString("\n  document: ")
	b.WriteString(e.Document)
	if len(e.Variables) > 0 {
		names := make([]string, 0, len(e.Variables))
		for name := range e.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("\n  variables:")
		for _, name := range names {
			fmt.Fprintf(&b, " $%s=%v", name, e.Variables[name])
		}
	}
	if e.Debug != nil && e.Debug.Response != nil {
		b.WriteString("\n  response: ")
		b.WriteString(strings.TrimSpace(e.Debug.Response.Body))
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(req *projection.Request, err error) *TransportError {
	te := &TransportError{
		Document:  req.Document,
		Variables: req.VariableMap(),
		Err:       err,
	}
	var gqlErrs Errors
	if errors.As(err, &gqlErrs) {
		te.Errors = gqlErrs
		for _, e := range gqlErrs {
			if debug := e.GetInternalExtensions(); debug != nil {
				te.Debug = debug
				break
			}
		}
	}
	return te
}

// Execute sends a compiled query or mutation through a and decodes the
// response. Nothing is retried; a failed exchange returns no result.
func Execute(ctx context.Context, a Adapter, req *projection.Request) (*projection.Object, error) {
	var (
		data json.RawMessage
		err  error
	)
	switch req.Operation {
	case types.OperationQuery:
		data, err = a.ExecuteQuery(ctx, req.Document, req.VariableMap())
	case types.OperationMutation:
		data, err = a.ExecuteMutation(ctx, req.Document, req.VariableMap())
	default:
		return nil, fmt.Errorf("cannot execute a %s, use Subscribe", req.Operation)
	}
	if err != nil {
		return nil, newTransportError(req, err)
	}
	return projection.Decode(req, data)
}

// Subscription delivers the decoded events of one subscription.
type Subscription struct {
	req    *projection.Request
	stream Stream
}

// Subscribe opens a subscription for a compiled subscription request.
func Subscribe(ctx context.Context, a SubscriptionAdapter, req *projection.Request) (*Subscription, error) {
	if req.Operation != types.OperationSubscription {
		return nil, fmt.Errorf("cannot subscribe to a %s, use Execute", req.Operation)
	}
	stream, err := a.ExecuteSubscription(ctx, req.Document, req.VariableMap())
	if err != nil {
		return nil, newTransportError(req, err)
	}
	return &Subscription{req: req, stream: stream}, nil
}

// Request returns the compiled subscription.
func (s *Subscription) Request() *projection.Request { return s.req }

// Next waits for the next event and decodes it. It returns io.EOF when the
// server completed the subscription. A server error ends the subscription:
// it is returned as a *TransportError and later calls return io.EOF.
func (s *Subscription) Next(ctx context.Context) (*projection.Object, error) {
	data, err := s.stream.Receive(ctx)
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, newTransportError(s.req, err)
	}
	return projection.Decode(s.req, data)
}

// Close stops the subscription.
func (s *Subscription) Close() error {
	return s.stream.Close()
}

// Transport combines a Client and a SubscriptionClient into one adapter
// for queries, mutations and subscriptions.
type Transport struct {
	*Client
	*SubscriptionClient
}

var (
	_ Adapter             = (*Client)(nil)
	_ SubscriptionAdapter = (*SubscriptionClient)(nil)
	_ Adapter             = Transport{}
	_ SubscriptionAdapter = Transport{}
)
