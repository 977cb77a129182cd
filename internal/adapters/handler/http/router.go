package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type RouterConfig struct {
	Pools          *PoolHandler
	Distributions  *DistributionHandler
	Auth           *AuthHandler
	Users          *UserHandler
	Tokens         ports.AuthService
	Metrics        http.Handler
	AllowedOrigins []string
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/oauth", func(r chi.Router) {
		r.Post("/callback", cfg.Auth.GoogleCallback)
		r.Post("/logout", cfg.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.With(RequireIdentity(cfg.Tokens)).Get("/me", cfg.Users.GetMe)

		r.Route("/pools", func(r chi.Router) {
			r.With(RequireIdentity(cfg.Tokens)).Post("/", cfg.Pools.CreatePool)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Pools.GetPoolDetail)
				r.Get("/preview", cfg.Pools.GetPoolPreview)
				r.Get("/split", cfg.Pools.PreviewSplit)
				r.With(OptionalIdentity(cfg.Tokens)).Get("/forecast", cfg.Pools.GetForecast)

				r.Group(func(r chi.Router) {
					r.Use(RequireIdentity(cfg.Tokens))
					r.Post("/members", cfg.Pools.JoinPool)
					r.Post("/distributions", cfg.Distributions.SimulateDistribution)
				})
			})
		})
	})

	return r
}
