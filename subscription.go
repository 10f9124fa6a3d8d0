package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// graphql-ws protocol message types.
const (
	gqlConnectionInit      = "connection_init"
	gqlConnectionAck       = "connection_ack"
	gqlConnectionError     = "connection_error"
	gqlConnectionKeepAlive = "ka"
	gqlConnectionTerminate = "connection_terminate"
	gqlStart               = "start"
	gqlStop                = "stop"
	gqlData                = "data"
	gqlError               = "error"
	gqlComplete            = "complete"
)

// Subprotocol is the WebSocket subprotocol spoken by SubscriptionClient.
const Subprotocol = "graphql-ws"

// ErrSubscriptionStopped is returned by Receive on a stream that was closed.
var ErrSubscriptionStopped = errors.New("subscription stopped")

type operationMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type startPayload struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type dataPayload struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// SubscriptionClient opens GraphQL subscriptions over WebSocket with the
// graphql-ws protocol. Each subscription gets its own connection.
//
// Unlike Client, the With* methods modify the receiver and return it, so
// configuration is done once before use:
//
//	sc := NewSubscriptionClient(url).
//		WithConnectionParams(params).
//		WithLog(log.Println)
type SubscriptionClient struct {
	url              string
	connectionParams map[string]any
	header           http.Header
	httpClient       *http.Client
	ackTimeout       time.Duration
	log              func(args ...any)
}

// NewSubscriptionClient creates a subscription client for the GraphQL
// endpoint url. http and https URLs are upgraded to ws and wss.
func NewSubscriptionClient(url string) *SubscriptionClient {
	return &SubscriptionClient{
		url:        url,
		header:     make(http.Header),
		ackTimeout: 10 * time.Second,
		log:        func(args ...any) {},
	}
}

// WithConnectionParams sets the payload of the connection_init message.
func (sc *SubscriptionClient) WithConnectionParams(params map[string]any) *SubscriptionClient {
	sc.connectionParams = params
	return sc
}

// WithHeader adds a header to the WebSocket handshake request, e.g. an
// Authorization header.
func (sc *SubscriptionClient) WithHeader(key, value string) *SubscriptionClient {
	sc.header.Add(key, value)
	return sc
}

// WithHTTPClient sets the client used for the handshake.
func (sc *SubscriptionClient) WithHTTPClient(client *http.Client) *SubscriptionClient {
	sc.httpClient = client
	return sc
}

// WithTimeout sets how long to wait for connection_ack.
func (sc *SubscriptionClient) WithTimeout(timeout time.Duration) *SubscriptionClient {
	sc.ackTimeout = timeout
	return sc
}

// WithLog sets a logger for protocol traffic, e.g. log.Println.
func (sc *SubscriptionClient) WithLog(logger func(args ...any)) *SubscriptionClient {
	sc.log = logger
	return sc
}

// ExecuteSubscription connects, runs the protocol handshake and starts
// the subscription. It implements SubscriptionAdapter. Cancelling ctx
// closes the stream.
func (sc *SubscriptionClient) ExecuteSubscription(
	ctx context.Context,
	query string,
	variables map[string]any,
) (Stream, error) {
	conn, _, err := websocket.Dial(ctx, sc.url, &websocket.DialOptions{
		HTTPClient:   sc.httpClient,
		HTTPHeader:   sc.header,
		Subprotocols: []string{Subprotocol},
	})
	if err != nil {
		return nil, newError(ErrRequestError, fmt.Errorf("dial %s: %w", sc.url, err))
	}

	s := &wsStream{conn: conn, id: uuid.NewString(), log: sc.log}
	if err := s.init(ctx, sc.connectionParams, sc.ackTimeout); err != nil {
		_ = conn.Close(websocket.StatusProtocolError, "handshake failed")
		return nil, err
	}
	if err := s.start(ctx, query, variables); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "start failed")
		return nil, err
	}
	s.stopWatch = context.AfterFunc(ctx, func() { _ = s.Close() })
	return s, nil
}

// wsStream is one subscription on its own connection. Frames are read
// only from Receive, so nothing is buffered between events.
type wsStream struct {
	conn      *websocket.Conn
	id        string
	log       func(args ...any)
	stopWatch func() bool

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
	mu        sync.Mutex
	done      bool
}

func (s *wsStream) init(ctx context.Context, params map[string]any, timeout time.Duration) error {
	s.closed = make(chan struct{})
	msg := operationMessage{Type: gqlConnectionInit}
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			return newError(ErrJsonEncode, err)
		}
		msg.Payload = payload
	}
	if err := s.write(ctx, msg); err != nil {
		return err
	}

	ackCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		var in operationMessage
		if err := wsjson.Read(ackCtx, s.conn, &in); err != nil {
			return newError(ErrRequestError, fmt.Errorf("waiting for %s: %w", gqlConnectionAck, err))
		}
		s.log("graphql-ws <-", in.Type)
		switch in.Type {
		case gqlConnectionAck:
			return nil
		case gqlConnectionKeepAlive:
		case gqlConnectionError:
			return newError(ErrRequestError, fmt.Errorf("connection rejected: %s", in.Payload))
		default:
			return newError(ErrRequestError, fmt.Errorf("unexpected %q before %s", in.Type, gqlConnectionAck))
		}
	}
}

func (s *wsStream) start(ctx context.Context, query string, variables map[string]any) error {
	payload, err := json.Marshal(startPayload{Query: query, Variables: variables})
	if err != nil {
		return newError(ErrJsonEncode, err)
	}
	return s.write(ctx, operationMessage{ID: s.id, Type: gqlStart, Payload: payload})
}

func (s *wsStream) write(ctx context.Context, msg operationMessage) error {
	s.log("graphql-ws ->", msg.Type, msg.ID)
	if err := wsjson.Write(ctx, s.conn, msg); err != nil {
		return newError(ErrRequestError, fmt.Errorf("send %s: %w", msg.Type, err))
	}
	return nil
}

// Receive implements Stream.
func (s *wsStream) Receive(ctx context.Context) (json.RawMessage, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done {
		return nil, io.EOF
	}

	for {
		var in operationMessage
		if err := wsjson.Read(ctx, s.conn, &in); err != nil {
			select {
			case <-s.closed:
				return nil, ErrSubscriptionStopped
			default:
			}
			return nil, newError(ErrRequestError, err)
		}
		s.log("graphql-ws <-", in.Type, in.ID)

		if in.ID != "" && in.ID != s.id {
			continue
		}
		switch in.Type {
		case gqlConnectionKeepAlive, gqlConnectionAck:
		case gqlData:
			var p dataPayload
			if err := json.Unmarshal(in.Payload, &p); err != nil {
				return nil, newError(ErrJsonDecode, err)
			}
			if len(p.Errors) > 0 {
				s.fail()
				return nil, p.Errors
			}
			return p.Data, nil
		case gqlError, gqlConnectionError:
			err := decodeErrorPayload(in.Payload)
			s.fail()
			return nil, err
		case gqlComplete:
			s.finish()
			return nil, io.EOF
		default:
			s.log("graphql-ws: ignoring message type", in.Type)
		}
	}
}

func (s *wsStream) finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// fail ends the stream after a server error. The server sends no
// complete after an error, so the connection is closed right away and
// later calls to Receive report io.EOF.
func (s *wsStream) fail() {
	s.finish()
	_ = s.Close()
}

// decodeErrorPayload reads the payload of an error message, which servers
// send either as a single error object or as a list.
func decodeErrorPayload(payload json.RawMessage) error {
	var errs Errors
	if err := json.Unmarshal(payload, &errs); err == nil && len(errs) > 0 {
		return errs
	}
	var single Error
	if err := json.Unmarshal(payload, &single); err == nil && single.Message != "" {
		return Errors{single}
	}
	return newError(ErrRequestError, fmt.Errorf("subscription error: %s", payload))
}

// Close implements Stream. It stops the subscription, terminates the
// connection and is safe to call more than once.
func (s *wsStream) Close() error {
	s.closeOnce.Do(func() {
		if s.stopWatch != nil {
			s.stopWatch()
		}
		close(s.closed)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.mu.Lock()
		done := s.done
		s.mu.Unlock()
		if !done {
			_ = s.write(ctx, operationMessage{ID: s.id, Type: gqlStop})
		}
		_ = s.write(ctx, operationMessage{Type: gqlConnectionTerminate})
		s.closeErr = s.conn.Close(websocket.StatusNormalClosure, "")
		if errors.Is(s.closeErr, context.Canceled) {
			s.closeErr = nil
		}
	})
	return s.closeErr
}
