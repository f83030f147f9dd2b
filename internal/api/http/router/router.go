package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/daycare-server/internal/api/http/handler"
	"github.com/dtroode/daycare-server/internal/api/http/middleware"
	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/model"
)

// Router wires the admin API handlers and middleware.
type Router struct {
	handler        *handler.Handler
	pinger         handler.Pinger
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	observer       middleware.RequestObserver
	metrics        http.Handler
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	h *handler.Handler,
	pinger handler.Pinger,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	observer middleware.RequestObserver,
	metrics http.Handler,
	logger *logger.Logger,
) *Router {
	return &Router{
		handler:        h,
		pinger:         pinger,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		observer:       observer,
		metrics:        metrics,
		logger:         logger,
	}
}

// Register builds the route tree. Health and metrics are public; everything
// under /api needs a bearer token.
func (r *Router) Register() chi.Router {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)
	staff := authenticate.RequireRole(model.RoleAdmin, model.RoleStaff)
	admin := authenticate.RequireRole(model.RoleAdmin)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handler)
	mux.Use(middleware.Metrics(r.observer))
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.Timeout(30 * time.Second))

	mux.Get("/healthz", handler.Health(r.pinger))
	mux.Method(http.MethodGet, "/metrics", r.metrics)

	mux.Route("/api", func(api chi.Router) {
		api.Use(authenticate.Handler)

		api.Route("/users", func(users chi.Router) {
			users.With(staff).Get("/", r.handler.ListUsers)
			users.With(admin).Post("/", r.handler.CreateUser)
			users.With(staff).Get("/{id}", r.handler.GetUser)
			users.With(admin).Put("/{id}/metadata", r.handler.ReplaceMetadata)
			users.With(admin).Patch("/{id}/metadata", r.handler.MergeMetadata)
		})

		api.Route("/children", func(children chi.Router) {
			children.Use(staff)
			children.Get("/", r.handler.ListChildren)
			children.Post("/", r.handler.EnrollChild)
			children.Get("/allergies", r.handler.AllergiesReport)
			children.Get("/{id}", r.handler.GetChild)
			children.Put("/{id}/classroom", r.handler.AssignClassroom)
			children.Put("/{id}/status", r.handler.ChangeStatus)
		})

		api.With(staff).Get("/classrooms/stats", r.handler.ClassroomStatistics)
	})

	return mux
}
