package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// RequestModifier tweaks every outgoing HTTP request, e.g. to set
// authentication headers.
type RequestModifier func(*http.Request)

// Client sends compiled queries and mutations to a GraphQL server as
// {query, variables} JSON bodies over HTTP. It implements Adapter.
//
// The With* methods return a new Client and leave the receiver as it was,
// so a configured Client can be shared between goroutines:
//
//	client = client.WithDebug(true).WithRequestModifier(modifier)
//
// SubscriptionClient differs: its With* methods modify the receiver.
type Client struct {
	url             string
	httpClient      *http.Client
	requestModifier RequestModifier
	debug           bool
	log             func(args ...any)
}

// NewClient creates a Client for the server at url. If httpClient is nil,
// http.DefaultClient is used.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		log:        func(args ...any) {},
	}
}

// ExecuteQuery sends a compiled query and returns the "data" member of the
// response. It implements Adapter.
func (c *Client) ExecuteQuery(
	ctx context.Context,
	query string,
	variables map[string]any,
) (json.RawMessage, error) {
	return c.execute(ctx, query, variables)
}

// ExecuteMutation sends a compiled mutation and returns the "data" member
// of the response. It implements Adapter.
func (c *Client) ExecuteMutation(
	ctx context.Context,
	query string,
	variables map[string]any,
) (json.RawMessage, error) {
	return c.execute(ctx, query, variables)
}

// execute fails on any server error, even alongside partial data: a
// projection is decoded whole or not at all.
func (c *Client) execute(
	ctx context.Context,
	query string,
	variables map[string]any,
) (json.RawMessage, error) {
	data, errs := c.do(ctx, query, variables)
	if len(errs) > 0 {
		c.log("graphql request failed:", errs.Error())
		return nil, errs
	}
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, newSimpleErrors(ErrGraphQLDecode, errors.New("response has no data"))
	}
	return data, nil
}

// exchange is what a failed round trip reports in debug mode.
type exchange struct {
	req      *http.Request
	reqBody  []byte
	resp     *http.Response
	respBody []byte
}

func (c *Client) do(
	ctx context.Context,
	query string,
	variables map[string]any,
) (json.RawMessage, Errors) {
	ex := &exchange{}
	var err error
	ex.req, ex.reqBody, err = c.newRequest(ctx, query, variables)
	if err != nil {
		return nil, Errors{c.requestError(ErrJsonEncode, fmt.Errorf("problem constructing request: %w", err), ex)}
	}

	resp, err := c.httpClient.Do(ex.req)
	if err != nil {
		return nil, Errors{c.requestError(ErrRequestError, err, ex)}
	}
	defer func() { _ = resp.Body.Close() }()
	ex.resp = resp

	ex.respBody, err = readBody(resp)
	if err != nil {
		return nil, Errors{c.requestError(ErrJsonDecode, err, ex)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Errors{c.requestError(ErrRequestError, fmt.Errorf("%v; body: %q", resp.Status, ex.respBody), ex)}
	}

	data, errs := decodeResponse(ex.respBody)
	if len(errs) > 0 {
		// server errors are decorated once, on the first entry
		errs[0] = c.decorate(errs[0], ex)
		return data, errs
	}
	return data, nil
}

func (c *Client) newRequest(
	ctx context.Context,
	query string,
	variables map[string]any,
) (*http.Request, []byte, error) {
	in := struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{
		Query:     query,
		Variables: variables,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return nil, nil, err
	}
	body := buf.Bytes()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, body, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.requestModifier != nil {
		c.requestModifier(req)
	}
	return req, body, nil
}

// readBody reads the whole response body, decompressing gzip bodies.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("problem trying to create gzip reader: %w", err)
		}
		defer func() { _ = gr.Close() }()
		r = gr
	}
	return io.ReadAll(r)
}

func decodeResponse(body []byte) (json.RawMessage, Errors) {
	var out struct {
		Data   json.RawMessage `json:"data"`
		Errors Errors          `json:"errors"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, newSimpleErrors(ErrJsonDecode, err)
	}
	return out.Data, out.Errors
}

func (c *Client) clone() *Client {
	cp := *c
	return &cp
}

// WithRequestModifier returns a new Client that passes every request
// through f before sending it. Clients sharing an http.Client share its
// connections, e.g. for per-tenant credentials.
func (c *Client) WithRequestModifier(f RequestModifier) *Client {
	clone := c.clone()
	clone.requestModifier = f
	return clone
}

// WithDebug returns a new Client that records the request and response
// bodies of a failed exchange in the error's "internal" extension. They
// show up in the Debug field of the resulting TransportError.
func (c *Client) WithDebug(debug bool) *Client {
	clone := c.clone()
	clone.debug = debug
	return clone
}

// WithLog returns a new Client that reports failed requests to logger,
// e.g. log.Println.
func (c *Client) WithLog(logger func(args ...any)) *Client {
	clone := c.clone()
	clone.log = logger
	return clone
}

func (c *Client) requestError(code string, err error, ex *exchange) Error {
	return c.decorate(newError(code, err), ex)
}

// decorate attaches what is known of the exchange when debug mode is on.
func (c *Client) decorate(e Error, ex *exchange) Error {
	if !c.debug {
		return e
	}
	if ex.req != nil {
		e = e.withDebugInfo("request", ex.req.Header, ex.reqBody)
	}
	if ex.resp != nil {
		e = e.withDebugInfo("response", ex.resp.Header, ex.respBody)
	}
	return e
}

// Errors represents the "errors" array in a response from a GraphQL server.
// If returned via error interface, the slice is expected to contain at least 1 element.
//
// Specification: https://facebook.github.io/graphql/#sec-Errors.
type Errors []Error

// Error is one GraphQL error. Errors raised by the client itself carry a
// "code" extension, one of the Err* constants.
type Error struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
	Locations  []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations"`
}

// RequestInfo is the request half of a recorded exchange.
type RequestInfo struct {
	Headers http.Header
	Body    string
}

// ResponseInfo is the response half of a recorded exchange.
type ResponseInfo struct {
	Headers http.Header
	Body    string
}

// InternalExtensions is the exchange recorded on an error in debug mode.
type InternalExtensions struct {
	Request  *RequestInfo
	Response *ResponseInfo
}

// Error implements error interface.
func (e Error) Error() string {
	return fmt.Sprintf("Message: %s, Locations: %+v", e.Message, e.Locations)
}

// Error implements error interface.
func (e Errors) Error() string {
	b := strings.Builder{}
	for _, err := range e {
		b.WriteString(err.Error())
	}
	return b.String()
}

// GetCode returns the "code" extension, or "" when there is none.
func (e Error) GetCode() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// GetInternalExtensions returns the exchange recorded in debug mode, or
// nil.
func (e Error) GetInternalExtensions() *InternalExtensions {
	internal, ok := e.Extensions["internal"].(map[string]any)
	if !ok {
		return nil
	}
	ext := &InternalExtensions{}
	if info, ok := internal["request"].(map[string]any); ok {
		headers, body := debugInfo(info)
		ext.Request = &RequestInfo{Headers: headers, Body: body}
	}
	if info, ok := internal["response"].(map[string]any); ok {
		headers, body := debugInfo(info)
		ext.Response = &ResponseInfo{Headers: headers, Body: body}
	}
	return ext
}

func debugInfo(info map[string]any) (http.Header, string) {
	headers, _ := info["headers"].(http.Header)
	body, _ := info["body"].(string)
	return headers, body
}

func newError(code string, err error) Error {
	return Error{
		Message: err.Error(),
		Extensions: map[string]any{
			"code": code,
		},
	}
}

func newSimpleErrors(code string, err error) Errors {
	return Errors{newError(code, err)}
}

// withDebugInfo stores headers and body under infoType ("request" or
// "response") in the "internal" extension.
func (e Error) withDebugInfo(infoType string, headers http.Header, body []byte) Error {
	if e.Extensions == nil {
		e.Extensions = make(map[string]any)
	}
	internal, ok := e.Extensions["internal"].(map[string]any)
	if !ok {
		internal = make(map[string]any)
		e.Extensions["internal"] = internal
	}
	internal[infoType] = map[string]any{
		"headers": headers,
		"body":    string(body),
	}
	return e
}

// Error codes set by the client in the "code" extension.
const (
	ErrRequestError  = "request_error"
	ErrJsonEncode    = "json_encode_error"
	ErrJsonDecode    = "json_decode_error"
	ErrGraphQLDecode = "graphql_decode_error"
)
