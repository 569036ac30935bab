// Package httpapi exposes the authentication service as a JSON API under
// /api/auth, plus /health and /metrics.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions carries what the router needs besides the service.
type RouterOptions struct {
	AllowedOrigins []string
	Metrics        http.Handler
	Recorder       ObservedRecorder
	Logger         logging.Logger
}

func NewRouter(svc AuthService, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	logger = logger.With("module", "http")

	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(logger, opts.Recorder))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(BearerToken)
			r.Post("/logout", h.Logout)
			r.Post("/refresh", h.Refresh)
			r.Get("/me", h.Me)
		})
	})

	return r
}
