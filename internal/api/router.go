package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/NahomAnteneh/scm-predictor/internal/api/handlers"
	scmmiddleware "github.com/NahomAnteneh/scm-predictor/internal/api/middleware"
	"github.com/NahomAnteneh/scm-predictor/internal/config"
	"github.com/NahomAnteneh/scm-predictor/internal/model"
	"github.com/NahomAnteneh/scm-predictor/internal/predictor"
	"github.com/NahomAnteneh/scm-predictor/internal/web"
)

// SetupRouter configures the HTTP router for the dashboard and the JSON API
func SetupRouter(cfg *config.Config, loader *model.Loader, svc *predictor.Service, pages *web.Renderer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Standard middleware; Logging also recovers panics
	r.Use(chimiddleware.RealIP)
	r.Use(scmmiddleware.Logging(logger))

	r.Get("/healthz", handlers.Health(loader))
	r.Get("/readyz", handlers.Ready(svc))

	// Dashboard
	r.Get("/", handlers.ShowDashboard(svc, pages, logger))
	r.Post("/", handlers.SubmitDashboard(svc, pages, logger))

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300, // Maximum cache age for preflight options request
		}))

		r.Post("/predictions", handlers.CreatePrediction(svc))
		r.Get("/encodings", handlers.GetEncodings())
		r.Get("/model", handlers.GetModel(svc))

		r.Route("/assessments", func(r chi.Router) {
			history := svc.History()
			if history == nil {
				r.Get("/", handlers.HistoryDisabled())
				r.Get("/*", handlers.HistoryDisabled())
				return
			}
			r.Get("/", handlers.ListAssessments(history))
			r.Get("/summary", handlers.SummarizeAssessments(history))
			r.Get("/{id}", handlers.GetAssessment(history))
		})
	})

	return r
}
