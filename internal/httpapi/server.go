// Package httpapi exposes the REST API: route tables mapping verb+path to
// a validation chain and handler, with a uniform JSON envelope.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/auth"
	"github.com/eleven-am/taskboard/internal/config"
	"github.com/eleven-am/taskboard/internal/store"
)

// Server wires the store, token issuer, and password hasher into HTTP
// handlers.
type Server struct {
	store   *store.Store
	tokens  *auth.TokenIssuer
	hasher  *auth.Hasher
	cfg     *config.Config
	started time.Time
}

// New constructs a Server from the long-lived store handle and config.
func New(st *store.Store, cfg *config.Config) *Server {
	return &Server{
		store:   st,
		tokens:  auth.NewTokenIssuer(cfg.JWT.Secret, cfg.TokenTTL()),
		hasher:  auth.NewHasher(cfg.Password.Cost),
		cfg:     cfg,
		started: time.Now(),
	}
}

// Routes builds the full route table.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(CORS(s.cfg.Server.AllowedOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.Authenticate)
				r.Get("/me", s.handleGetMe)
				r.Put("/me", s.handleUpdateMe)
				r.Put("/password", s.handleChangePassword)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(s.Authenticate)
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/{id}", s.handleGetProject)
			r.Put("/{id}", s.handleUpdateProject)
			r.Delete("/{id}", s.handleDeleteProject)
			r.Get("/{id}/stats", s.handleProjectStats)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(s.Authenticate)
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Patch("/reorder", s.handleReorderTasks)
			r.Get("/{id}", s.handleGetTask)
			r.Put("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
			r.Post("/{id}/comments", s.handleAddComment)
			r.Delete("/{taskId}/comments/{commentId}", s.handleDeleteComment)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Use(s.Authenticate)
			r.Get("/", s.handleListTags)
			r.Post("/", s.handleCreateTag)
			r.Get("/{id}", s.handleGetTag)
			r.Put("/{id}", s.handleUpdateTag)
			r.Delete("/{id}", s.handleDeleteTag)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(s.Authenticate)
			r.Get("/", s.handleListUsers)
			r.Get("/search", s.handleSearchUsers)
			r.Get("/{id}", s.handleGetUser)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Use(s.Authenticate)
			r.Get("/dashboard", s.handleDashboardStats)
			r.Get("/activity", s.handleRecentActivity)
			r.Get("/productivity", s.handleProductivityStats)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, apperr.NotFound("Route "+r.Method+" "+r.URL.Path+" not found"))
	})

	return r
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(s.started).Seconds(),
		"environment": s.cfg.Environment,
	}, "")
}

// pagination extracts page and limit query params, clamped to the
// configured bounds.
func (s *Server) pagination(r *http.Request) (page, limit int) {
	page = 1
	limit = s.cfg.Pagination.DefaultLimit

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
	}
	if limit > s.cfg.Pagination.MaxLimit {
		limit = s.cfg.Pagination.MaxLimit
	}
	return page, limit
}
