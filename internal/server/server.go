package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"CompanyPulse/internal/metrics"
	"CompanyPulse/internal/model"
	"CompanyPulse/internal/recorder"
)

// Lookuper resolves a company and records the lookup.
type Lookuper interface {
	Lookup(ctx context.Context, source, requestID, query string) (*model.Insights, error)
}

// Server is the read-only HTTP API.
type Server struct {
	router   *mux.Router
	server   *http.Server
	lookup   Lookuper
	recorder recorder.Recorder
}

// New creates a server listening on addr.
func New(addr string, lookup Lookuper, rec recorder.Recorder) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{
		router:   mux.NewRouter(),
		lookup:   lookup,
		recorder: rec,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/insights", s.handleInsights).Methods(http.MethodGet)
	api.HandleFunc("/charts/{kind:[a-z]+}.png", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/lookups", s.handleLookups).Methods(http.MethodGet)

	// Middleware does not run for unmatched routes.
	s.router.NotFoundHandler = s.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHTTP("unmatched", strconv.Itoa(http.StatusNotFound))
		writeError(w, r, http.StatusNotFound, errors.New("not found"))
	}))
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down http server")
	return s.server.Shutdown(ctx)
}

type ctxKey struct{}

// RequestID returns the request ID set by the middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestIDMiddleware keeps a caller-supplied X-Request-ID or assigns one.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, requestID)))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.RecordHTTP(route, strconv.Itoa(wrapper.statusCode))
		log.Info().
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// responseWrapper captures the status code.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
