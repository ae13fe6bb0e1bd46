// Package server exposes the orchestration core over HTTP: a structured
// plan endpoint, an SSE chat endpoint with in-memory sessions, and the
// curated places catalog. It renders nothing; it serializes what the
// core returns.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/roamapp/roam/internal/chat"
	"github.com/roamapp/roam/internal/itinerary"
	"github.com/roamapp/roam/internal/places"
)

// Options configures a Server. Generator and Sessions may be nil when
// no API key is configured; the AI endpoints then answer 503 without
// attempting any provider call.
type Options struct {
	Addr      string
	Generator *itinerary.Generator
	Sessions  *chat.Store
	Catalog   *places.Catalog
	Currency  string
}

// Server is the roam HTTP API server.
type Server struct {
	addr     string
	gen      *itinerary.Generator
	sessions *chat.Store
	catalog  *places.Catalog
	currency string

	limiter *rateLimiter
	httpSrv *http.Server
}

// New creates a Server. It does not start listening.
func New(opts Options) *Server {
	s := &Server{
		addr:     opts.Addr,
		gen:      opts.Generator,
		sessions: opts.Sessions,
		catalog:  opts.Catalog,
		currency: opts.Currency,
		limiter:  newRateLimiter(),
	}

	router := httprouter.New()
	router.POST("/api/plan", s.limiter.limit(s.handlePlan))
	router.POST("/api/chat", s.limiter.limit(s.handleChat))
	router.GET("/api/chat/:session/history", s.handleHistory)
	router.GET("/api/places", s.handlePlaces)
	router.GET("/healthz", s.handleHealthz)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{SessionHeader},
	}).Handler(router)

	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// No WriteTimeout: the chat endpoint streams for as long as the
		// provider does.
	}

	return s
}

// Handler returns the root HTTP handler (used in tests).
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// ListenAndServe runs the server until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	slog.Info("roam API listening", "addr", s.addr, "ai_enabled", s.gen != nil)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
