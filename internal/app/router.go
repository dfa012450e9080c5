package app

import (
	"net/http"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func newRouter(h *handlers.TodoHandler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	if cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute))

	h.RegisterPages(r)

	r.Route("/api/todos", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
			ExposedHeaders: []string{middleware.RequestIdHeader},
			MaxAge:         300,
		}))
		h.RegisterAPI(r)
	})

	r.Get("/health", h.HealthCheck)

	return r
}

func instrument(next http.Handler, tp trace.TracerProvider) http.Handler {
	return otelhttp.NewHandler(next, "todoTracker",
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(propagation.TraceContext{}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
