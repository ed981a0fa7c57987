// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"datescout/internal/adapter/storage"
	"datescout/internal/config"
	"datescout/internal/domain/event"
	"datescout/internal/server/handlers"
)

// Server wraps the HTTP server and its router
type Server struct {
	server *http.Server
	router chi.Router
}

// NewServer creates the HTTP server with all routes configured
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	analyzer event.Analyzer,
	analysisStore *storage.AnalysisStore,
	eventStore *storage.EventStore,
	eventsTopic string,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	analysisHandler := handlers.NewAnalysisHandler(analyzer, analysisStore, eventStore)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/analysis", func(r chi.Router) {
				r.Post("/", analysisHandler.RunAnalysis)
				r.Get("/{id}", analysisHandler.GetAnalysis)
			})

			r.Get("/events", analysisHandler.ListEvents)
		})
	})

	// WebSocket endpoint streaming analysis progress
	if natsConn != nil {
		router.Get("/ws/analysis/{id}", handlers.AnalysisWebSocketHandler(natsConn, eventsTopic))
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
