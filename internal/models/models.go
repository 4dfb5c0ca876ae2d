package models

import (
	"time"
)

// Role determines a user's global permission level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectArchived  ProjectStatus = "ARCHIVED"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
)

// TaskStatus is the kanban column a task lives in.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskInReview   TaskStatus = "IN_REVIEW"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch ProjectStatus(s) {
	case ProjectActive, ProjectArchived, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskTodo, TaskInProgress, TaskInReview, TaskCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known priority.
func ValidPriority(s string) bool {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// User is an account holder. Password is the bcrypt hash and is never
// serialized into API responses.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Role      Role      `db:"role" json:"role"`
	Avatar    string    `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Counts *UserCounts `db:"-" json:"counts,omitempty"`
}

// UserCounts summarizes what a user owns, included on profile reads.
type UserCounts struct {
	Projects      int `db:"projects" json:"projects"`
	Tasks         int `db:"tasks" json:"tasks"`
	AssignedTasks int `db:"assigned_tasks" json:"assignedTasks"`
}

// UserRef is the compact user shape embedded in related records.
type UserRef struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email,omitempty"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Avatar    string `db:"avatar" json:"avatar,omitempty"`
}

// Project groups tasks under a single owner.
type Project struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description,omitempty"`
	Color       string        `db:"color" json:"color,omitempty"`
	Icon        string        `db:"icon" json:"icon,omitempty"`
	Status      ProjectStatus `db:"status" json:"status"`
	OwnerID     string        `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`

	Owner     *UserRef          `db:"-" json:"owner,omitempty"`
	TaskCount int               `db:"task_count" json:"taskCount"`
	TaskStats *ProjectTaskStats `db:"-" json:"taskStats,omitempty"`
	Tasks     []Task            `db:"-" json:"tasks,omitempty"`
}

// ProjectTaskStats is the per-project status breakdown returned on listings.
type ProjectTaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
}

// ProjectRef is the compact project shape embedded in task records.
type ProjectRef struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Color   string `db:"color" json:"color,omitempty"`
	OwnerID string `db:"owner_id" json:"ownerId,omitempty"`
}

// Task is a unit of work inside a project. Order is a per-project sequence
// used for manual sorting on the board; it is not globally unique.
type Task struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	Priority    Priority   `db:"priority" json:"priority"`
	DueDate     *time.Time `db:"due_date" json:"dueDate"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt"`
	Order       int        `db:"sort_order" json:"order"`
	ProjectID   string     `db:"project_id" json:"projectId"`
	CreatorID   string     `db:"creator_id" json:"creatorId"`
	AssigneeID  *string    `db:"assignee_id" json:"assigneeId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	Project      *ProjectRef `db:"-" json:"project,omitempty"`
	Creator      *UserRef    `db:"-" json:"creator,omitempty"`
	Assignee     *UserRef    `db:"-" json:"assignee,omitempty"`
	Tags         []Tag       `db:"-" json:"tags,omitempty"`
	Comments     []Comment   `db:"-" json:"comments,omitempty"`
	CommentCount int         `db:"comment_count" json:"commentCount"`
}

// Tag labels tasks. Names are unique across the whole system.
type Tag struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	TaskCount int       `db:"task_count" json:"taskCount"`
	Tasks     []TaskRef `db:"-" json:"tasks,omitempty"`
}

// TaskRef is the compact task shape embedded in tag and comment reads.
type TaskRef struct {
	ID       string     `db:"id" json:"id"`
	Title    string     `db:"title" json:"title"`
	Status   TaskStatus `db:"status" json:"status,omitempty"`
	Priority Priority   `db:"priority" json:"priority,omitempty"`
}

// Comment is a note attached to a task.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	TaskID    string    `db:"task_id" json:"taskId"`
	AuthorID  string    `db:"author_id" json:"authorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Author *UserRef `db:"-" json:"author,omitempty"`
	Task   *TaskRef `db:"-" json:"task,omitempty"`
}

// Ref returns the compact embeddable form of a user.
func (u *User) Ref() *UserRef {
	return &UserRef{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}
