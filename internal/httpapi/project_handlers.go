package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/stats"
	"github.com/eleven-am/taskboard/internal/store"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())
	page, limit := s.pagination(r)

	projects, total, err := s.store.Projects.ListByOwner(r.Context(), principal.ID, store.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondPaginated(w, projects, page, limit, total)
}

// loadProjectForOwner fetches a project and enforces the ownership rule:
// only the owner or an admin may touch it.
func (s *Server) loadProjectForOwner(r *http.Request, id string) (*models.Project, error) {
	project, err := s.store.Projects.GetByID(r.Context(), id)
	if err != nil {
		return nil, apperr.NotFound("Project not found")
	}

	principal := principalFrom(r.Context())
	if project.OwnerID != principal.ID && principal.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("You do not have access to this project")
	}
	return project, nil
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	project, err := s.loadProjectForOwner(r, id)
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := s.store.Tasks.ListForProject(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	project.Tasks = tasks

	respond(w, project, "")
}

type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireText("name", req.Name, 2, 100)
	rules.optionalText("description", req.Description, 500)
	rules.hexColor("color", req.Color)
	rules.optionalText("icon", req.Icon, 50)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	project := &models.Project{
		Name:    req.Name,
		OwnerID: principal.ID,
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Color != nil {
		project.Color = *req.Color
	}
	if req.Icon != nil {
		project.Icon = *req.Icon
	}

	if err := s.store.Projects.Create(r.Context(), project); err != nil {
		respondError(w, err)
		return
	}

	created, err := s.store.Projects.GetByID(r.Context(), project.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, created, "Project created successfully")
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	Status      *string `json:"status"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if req.Name != nil {
		rules.textLength("name", *req.Name, 2, 100)
	}
	rules.optionalText("description", req.Description, 500)
	rules.hexColor("color", req.Color)
	rules.oneOf("status", req.Status, models.ValidProjectStatus, "Invalid project status")
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if _, err := s.loadProjectForOwner(r, id); err != nil {
		respondError(w, err)
		return
	}

	project, err := s.store.Projects.Update(r.Context(), id, store.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Status:      req.Status,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, project, "Project updated successfully")
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if _, err := s.loadProjectForOwner(r, id); err != nil {
		respondError(w, err)
		return
	}

	if err := s.store.Projects.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondNoContent(w)
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if _, err := s.loadProjectForOwner(r, id); err != nil {
		respondError(w, err)
		return
	}

	rows, err := s.store.Tasks.ProjectStatRows(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, stats.BuildProjectStats(rows), "")
}
