package handlers

import (
	"net/http"

	"todo-backend/internal/config"
	"todo-backend/internal/middleware"
	"todo-backend/internal/observability"
	"todo-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	todos     *TodoHandler
	auth      *AuthHandler
	health    *HealthHandler
	verifier  middleware.TokenVerifier
	responder *api.Responder
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	cfg *config.Config,
	todos *TodoHandler,
	auth *AuthHandler,
	health *HealthHandler,
	verifier middleware.TokenVerifier,
	responder *api.Responder,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		todos:     todos,
		auth:      auth,
		health:    health,
		verifier:  verifier,
		responder: responder,
		metrics:   metrics,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Recovery(rt.responder, rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.Error(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// API documentation
	router.Get("/api-docs", api.SwaggerUIHandler("/api-docs/openapi"))
	router.Get("/api-docs/openapi", api.OpenAPIHandler())

	if rt.cfg.Features.EnableMetrics && rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", rt.health.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.auth.Register)
			r.Post("/login", rt.auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.verifier, rt.responder, rt.logger))
				r.Get("/me", rt.auth.Me)
				r.Put("/me", rt.auth.UpdateMe)
				r.Get("/me/todos", rt.auth.MyTodos)
			})
		})

		// Todo routes are public; a valid token only records ownership.
		r.Route("/todos", func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(rt.verifier))
			r.Post("/", rt.todos.CreateTodo)
			r.Get("/", rt.todos.ListTodos)
			r.Get("/{id}", rt.todos.GetTodo)
			r.Put("/{id}", rt.todos.UpdateTodo)
			r.Delete("/{id}", rt.todos.DeleteTodo)
		})
	})

	return router
}
