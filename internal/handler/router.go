package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarques/backplan/internal/auth"
	"github.com/tmarques/backplan/internal/metrics"
	"github.com/tmarques/backplan/internal/middleware"
	"github.com/tmarques/backplan/internal/service"
)

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	JWTManager        *auth.JWTManager
	Collector         *metrics.Collector
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string

	AuthService    *service.AuthService
	ProjectService *service.ProjectService
	FeatureService *service.FeatureService
	StoryService   *service.StoryService
	TaskService    *service.TaskService
}

// NewRouter wires all endpoints and the middleware chain.
//
// Middleware order, outermost first:
//
//	RequestID -> CORS -> Metrics -> Logging [-> RequireAuth -> RateLimit]
//
// Register and login sit outside the auth group; /metrics and /healthz sit
// outside everything but the outer chain.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(deps.CORSAllowedOrigin))
	r.Use(deps.Collector.Middleware)
	r.Use(middleware.Logging)

	authHandler := NewAuthHandler(deps.AuthService)
	projectHandler := NewProjectHandler(deps.ProjectService, deps.Collector)
	featureHandler := NewFeatureHandler(deps.FeatureService, deps.Collector)
	storyHandler := NewStoryHandler(deps.StoryService, deps.Collector)
	taskHandler := NewTaskHandler(deps.TaskService, deps.Collector)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", deps.Collector.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.JWTManager))
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.JWTManager))
		r.Use(deps.RateLimiter.Middleware())

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Patch("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
			})
		})

		r.Route("/features", func(r chi.Router) {
			r.Post("/", featureHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", featureHandler.Update)
				r.Delete("/", featureHandler.Delete)
			})
		})

		r.Route("/user-stories", func(r chi.Router) {
			r.Post("/", storyHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", storyHandler.Update)
				r.Delete("/", storyHandler.Delete)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
			})
		})
	})

	return r
}
