package generatorapp

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/baysidecampaign/signup-engine/internal/config"
	"github.com/baysidecampaign/signup-engine/internal/http/handlers/generation/batches"
	"github.com/baysidecampaign/signup-engine/internal/http/handlers/generation/health"
	"github.com/baysidecampaign/signup-engine/internal/http/handlers/generation/stats"
	"github.com/baysidecampaign/signup-engine/internal/http/handlers/generation/trigger"
	"github.com/baysidecampaign/signup-engine/internal/http/middlewarectx"
	statsservice "github.com/baysidecampaign/signup-engine/internal/services/stats"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	triggerService TriggerService, statsService *statsservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/stats", stats.New(logger, statsService).ServeHTTP)
		r.Get("/batches", batches.New(logger, statsService).ServeHTTP)

		// Триггер за лимитером: его дергает планировщик, не пользователи
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Post("/generate", trigger.New(logger, triggerService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
