package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/store"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())
	page, limit := s.pagination(r)
	q := r.URL.Query()

	tasks, total, err := s.store.Tasks.List(r.Context(), principal.ID, principal.Role, store.TaskFilter{
		ProjectID:  q.Get("projectId"),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssigneeID: q.Get("assigneeId"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondPaginated(w, tasks, page, limit, total)
}

// checkTaskAccess enforces the task-level rule: creator, assignee, project
// owner, or admin.
func (s *Server) checkTaskAccess(r *http.Request, taskID string) error {
	access, err := s.store.Tasks.Access(r.Context(), taskID)
	if err != nil {
		return apperr.NotFound("Task not found")
	}

	principal := principalFrom(r.Context())
	if !access.AllowedFor(principal.ID, principal.Role) {
		return apperr.Forbidden("You do not have access to this task")
	}
	return nil
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if err := s.checkTaskAccess(r, id); err != nil {
		respondError(w, err)
		return
	}

	task, err := s.store.Tasks.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, task, "")
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ProjectID   string     `json:"projectId"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *string    `json:"assigneeId"`
	TagIDs      []string   `json:"tagIds"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireText("title", req.Title, 2, 200)
	rules.optionalText("description", req.Description, 2000)
	rules.requireUUID("projectId", req.ProjectID)
	rules.oneOf("priority", req.Priority, models.ValidPriority, "Invalid priority level")
	rules.oneOf("status", req.Status, models.ValidTaskStatus, "Invalid task status")
	rules.optionalUUID("assigneeId", req.AssigneeID)
	for _, tagID := range req.TagIDs {
		rules.requireUUID("tagIds", tagID)
	}
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	ownerID, err := s.store.Projects.OwnerID(r.Context(), req.ProjectID)
	if err != nil {
		respondError(w, apperr.NotFound("Project not found"))
		return
	}
	if ownerID != principal.ID && principal.Role != models.RoleAdmin {
		respondError(w, apperr.Forbidden("You do not have permission to add tasks to this project"))
		return
	}

	task := &models.Task{
		Title:      req.Title,
		ProjectID:  req.ProjectID,
		CreatorID:  principal.ID,
		DueDate:    req.DueDate,
		AssigneeID: req.AssigneeID,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = models.Priority(*req.Priority)
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}

	if err := s.store.CreateTaskWithTags(r.Context(), task, req.TagIDs); err != nil {
		respondError(w, err)
		return
	}

	created, err := s.store.Tasks.GetByID(r.Context(), task.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, created, "Task created successfully")
}

type updateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Priority    *string             `json:"priority"`
	Status      *string             `json:"status"`
	DueDate     Optional[time.Time] `json:"dueDate"`
	AssigneeID  Optional[string]    `json:"assigneeId"`
	Order       *int                `json:"order"`
	TagIDs      []string            `json:"tagIds"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if req.Title != nil {
		rules.textLength("title", *req.Title, 2, 200)
	}
	rules.optionalText("description", req.Description, 2000)
	rules.oneOf("priority", req.Priority, models.ValidPriority, "Invalid priority level")
	rules.oneOf("status", req.Status, models.ValidTaskStatus, "Invalid task status")
	if req.AssigneeID.Set {
		rules.optionalUUID("assigneeId", req.AssigneeID.Value)
	}
	for _, tagID := range req.TagIDs {
		rules.requireUUID("tagIds", tagID)
	}
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if err := s.checkTaskAccess(r, id); err != nil {
		respondError(w, err)
		return
	}

	params := store.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Order:       req.Order,
	}
	if req.DueDate.Set {
		params.DueDate = &req.DueDate.Value
	}
	if req.AssigneeID.Set {
		params.AssigneeID = &req.AssigneeID.Value
	}
	if err := s.store.UpdateTaskWithTags(r.Context(), id, params, req.TagIDs); err != nil {
		respondError(w, err)
		return
	}

	task, err := s.store.Tasks.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, task, "Task updated successfully")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if err := s.checkTaskAccess(r, id); err != nil {
		respondError(w, err)
		return
	}

	if err := s.store.Tasks.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondNoContent(w)
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())
	id := chi.URLParam(r, "id")

	var req addCommentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	rules.requireText("content", req.Content, 1, 1000)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if err := s.checkTaskAccess(r, id); err != nil {
		respondError(w, err)
		return
	}

	comment := &models.Comment{
		Content:  req.Content,
		TaskID:   id,
		AuthorID: principal.ID,
	}
	if err := s.store.Comments.Create(r.Context(), comment); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.store.Users.GetByID(r.Context(), principal.ID)
	if err == nil {
		comment.Author = user.Ref()
	}

	respondCreated(w, comment, "Comment added successfully")
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())
	taskID := chi.URLParam(r, "taskId")
	commentID := chi.URLParam(r, "commentId")

	rules := &fieldRules{}
	rules.requireUUID("taskId", taskID)
	rules.requireUUID("commentId", commentID)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	comment, access, err := s.store.Comments.GetByID(r.Context(), commentID)
	if err != nil {
		respondError(w, apperr.NotFound("Comment not found"))
		return
	}

	if comment.TaskID != taskID {
		respondError(w, apperr.BadRequest("Comment does not belong to this task"))
		return
	}

	// Author, task creator, project owner, or admin may delete.
	canDelete := comment.AuthorID == principal.ID ||
		access.CreatorID == principal.ID ||
		access.ProjectOwnerID == principal.ID ||
		principal.Role == models.RoleAdmin
	if !canDelete {
		respondError(w, apperr.Forbidden("You do not have permission to delete this comment"))
		return
	}

	if err := s.store.Comments.Delete(r.Context(), commentID); err != nil {
		respondError(w, err)
		return
	}

	respondNoContent(w)
}

type reorderRequest struct {
	ProjectID string            `json:"projectId"`
	Tasks     []store.TaskOrder `json:"tasks"`
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.ProjectID == "" || len(req.Tasks) == 0 {
		respondError(w, apperr.BadRequest("Project ID and tasks array are required"))
		return
	}

	ownerID, err := s.store.Projects.OwnerID(r.Context(), req.ProjectID)
	if err != nil {
		respondError(w, apperr.NotFound("Project not found"))
		return
	}
	if ownerID != principal.ID && principal.Role != models.RoleAdmin {
		respondError(w, apperr.Forbidden("You do not have permission to reorder tasks in this project"))
		return
	}

	if err := s.store.ReorderTasks(r.Context(), req.ProjectID, req.Tasks); err != nil {
		respondError(w, err)
		return
	}

	respond(w, nil, "Tasks reordered successfully")
}
