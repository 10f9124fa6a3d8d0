package cinemaserver

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"go.uber.org/zap"

	"github.com/llehouerou/go-graphql-projection/cinema"
)

// Path is where the GraphQL endpoint is mounted.
const Path = "/graphql"

// Server is the cinema GraphQL endpoint.
type Server struct {
	handler http.Handler
	bus     *EventBus
}

// NewServer parses the cinema schema against store. Queries are served
// over HTTP POST and subscriptions over graphql-ws on the same path.
// Every request needs basic authentication by one of cfg.Users.
func NewServer(cfg Config, store Store, log *zap.Logger) (*Server, error) {
	bus := NewEventBus(log)
	r := &resolver{store: store, bus: bus, log: log}
	schema, err := graphql.ParseSchema(cinema.SchemaSDL, r)
	if err != nil {
		return nil, fmt.Errorf("parse cinema schema: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(Path, graphqlws.NewHandlerFunc(schema, &relay.Handler{Schema: schema}))

	return &Server{
		handler: logRequests(log, basicAuth(cfg.Users, mux)),
		bus:     bus,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Events returns the bus that feeds subscriptions.
func (s *Server) Events() *EventBus { return s.bus }

// Close ends the open subscriptions.
func (s *Server) Close() {
	s.bus.Close()
}

// statusRecorder keeps the response status for the request log. It stays
// hijackable for the WebSocket upgrade.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.status = http.StatusSwitchingProtocols
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (r *statusRecorder) Flush() {
	_ = http.NewResponseController(r.ResponseWriter).Flush()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func logRequests(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		user := ""
		if name, _, ok := r.BasicAuth(); ok {
			user = name
		}
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user", user),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
