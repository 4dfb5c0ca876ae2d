package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/stats"
	"github.com/eleven-am/taskboard/internal/store"
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	rows, err := s.store.Tasks.StatRows(r.Context(), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	_, totalProjects, err := s.store.Projects.ListByOwner(r.Context(), principal.ID, store.ListFilter{Page: 1, Limit: 1})
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, stats.BuildDashboard(rows, totalProjects, time.Now()), "")
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
	}

	tasks, err := s.store.Tasks.Recent(r.Context(), principal.ID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	comments, err := s.store.Comments.Recent(r.Context(), principal.ID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	respond(w, map[string]interface{}{
		"recentTasks":    tasks,
		"recentComments": comments,
	}, "")
}

func (s *Server) handleProductivityStats(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	days := 30
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v >= 1 {
		days = v
	}

	now := time.Now()
	since := now.AddDate(0, 0, -days)

	completions, err := s.store.Tasks.CompletedSince(r.Context(), principal.ID, since)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, stats.BuildProductivity(completions, days, now), "")
}
