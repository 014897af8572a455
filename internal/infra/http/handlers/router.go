package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// Function calls per caller per minute.
const FunctionRateLimit = 30

type RouterDeps struct {
	CORS       config.CORSConfig
	Verifier   *middleware.TokenVerifier
	Logger     *log.Logger
	Conversion *ConversionHandler
	Onboarding *OnboardingHandler
	Queries    *QueryHandler
	Health     *HealthHandler
	Limiter    *RateLimiter
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Logger == nil {
		d.Logger = log.StandardLogger()
	}
	if d.Limiter == nil {
		d.Limiter = NewRateLimiter(FunctionRateLimit, time.Minute)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:       d.CORS.AllowedOrigins,
		AllowedMethods:       []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:       d.CORS.AllowedHeaders,
		ExposedHeaders:       []string{"Content-Disposition"},
		MaxAge:               300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/functions/v1", func(r chi.Router) {
		r.Options("/convert-lead-to-client", preflight)
		r.Options("/apply-onboarding-template", preflight)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Verifier, FunctionAuthError))
			r.Use(d.Limiter.Middleware(FunctionAuthError))
			r.Post("/convert-lead-to-client", d.Conversion.Handle)
			r.Post("/apply-onboarding-template", d.Onboarding.Handle)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Options("/*", preflight)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Verifier, AuthError))

			r.Get("/leads", d.Queries.ListLeads)
			r.Get("/leads/summary", d.Queries.LeadSummary)
			r.With(middleware.RequireRole(AuthError, entity.RoleAdmin)).
				Get("/leads/export", d.Queries.ExportLeads)
			r.Get("/leads/{id}", d.Queries.GetLead)
			r.Get("/clients/{id}", d.Queries.GetClient)
			r.Get("/tasks", d.Queries.ListTasks)
			r.Get("/activities", d.Queries.ListActivities)
			r.Get("/templates", d.Queries.ListTemplates)
		})
	})

	return r
}

// preflight answers bare OPTIONS requests that the CORS handler lets through.
func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
