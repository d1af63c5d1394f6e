package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chatpane/chatpane/internal/api/middleware"
	"github.com/chatpane/chatpane/internal/session"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger *zap.Logger, sessions *session.Registry, staticDir string) *chi.Mux {
	r := chi.NewRouter()

	// Metrics first so every request is counted.
	r.Use(middleware.Metrics)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := NewHandler(sessions, logger)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/message", h.HandleMessage)
		r.Get("/messages", h.GetMessages)
		r.Get("/transcript", h.GetTranscript)
		r.Get("/identity", h.GetIdentity)
		r.Post("/reset", h.ResetSession)
	})

	// The widget page itself.
	r.Handle("/*", http.FileServer(http.Dir(staticDir)))

	return r
}
