// Package api wires the identityd HTTP surface.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/cloudapi/identity"
	"github.com/cloudapi/identity/envelope"
)

// Checker reports whether a dependency is ready to serve.
type Checker interface {
	Check(ctx context.Context) error
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	identity       *identity.Middleware
	readiness      Checker
	metrics        http.Handler
	allowedOrigins []string
	logger         *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithReadiness sets the dependency pinged by /readyz.
func WithReadiness(c Checker) Option {
	return func(s *Server) { s.readiness = c }
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithAllowedOrigins sets the CORS origins. Default "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer builds a Server around m.
func NewServer(m *identity.Middleware, opts ...Option) *Server {
	s := &Server{
		identity:       m,
		allowedOrigins: []string{"*"},
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, instrumented handler.
//
//	GET  /         caller's claims, 403 when anonymous, 401 when rejected
//	GET  /healthz  liveness
//	GET  /readyz   readiness
//	GET  /metrics  Prometheus exposition, when configured
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = envelope.NotFound[any](nil).Write(w)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = envelope.NewError[any](http.StatusMethodNotAllowed, nil).Write(w)
	})

	router.HandleFunc("/healthz", s.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.Readiness).Methods(http.MethodGet)
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	authed := router.NewRoute().Subrouter()
	authed.Use(s.identity.Handler)
	authed.HandleFunc("/", s.Actor).Methods(http.MethodGet)

	handler := CORSMiddleware(s.allowedOrigins)(router)
	handler = s.logRequests(handler)
	return otelhttp.NewHandler(handler, "identityd")
}

// Actor answers with the caller's claims.
func (s *Server) Actor(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.Actor(r.Context())
	if !ok {
		s.logger.Error("Error retrieving user from request")
		_ = envelope.Forbidden[any](nil).Write(w)
		return
	}
	if err := envelope.OK(claims).Write(w); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

type healthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Liveness always answers 200 while the process serves.
func (s *Server) Liveness(w http.ResponseWriter, _ *http.Request) {
	_ = envelope.OK(healthStatus{Status: "ok"}).Write(w)
}

// Readiness answers 503 while the configured dependency fails its check.
func (s *Server) Readiness(w http.ResponseWriter, r *http.Request) {
	if s.readiness == nil {
		_ = envelope.OK(healthStatus{Status: "ok"}).Write(w)
		return
	}
	if err := s.readiness.Check(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", zap.Error(err))
		_ = envelope.NewError(http.StatusServiceUnavailable, healthStatus{Status: "unavailable"}).Write(w)
		return
	}
	_ = envelope.OK(healthStatus{Status: "ok"}).Write(w)
}
