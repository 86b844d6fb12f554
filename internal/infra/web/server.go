package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/domain/ports/repository"
)

// Server exposes the catalog store over REST along with /health and /metrics.
type Server struct {
	repo   repository.ProductRepository
	port   int
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(repo repository.ProductRepository, port int, logger *zerolog.Logger) *Server {
	return &Server{repo: repo, port: port, log: logger}
}

// Routes builds the chi router. It is exported for tests and for mounting elsewhere.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(traceID)
	r.Use(requestLog(s.log))
	r.Use(recoverer(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/products", func(r chi.Router) {
		r.Use(timeout(10 * time.Second))
		r.Get("/", productsListHandler(s.repo))
		r.Post("/", productsCreateHandler(s.repo))
		r.Put("/{id}", productsUpdateHandler(s.repo))
		r.Delete("/{id}", productsDeleteHandler(s.repo))
	})
	return r
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", s.port).Msg("catalog api listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
