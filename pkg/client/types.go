package client

import "time"

// User is an account as returned by the API. The password never crosses
// the wire.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Counts *UserCounts `json:"counts,omitempty"`
}

type UserCounts struct {
	Projects      int `json:"projects"`
	Tasks         int `json:"tasks"`
	AssignedTasks int `json:"assignedTasks"`
}

type UserRef struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar,omitempty"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Owner     *UserRef          `json:"owner,omitempty"`
	TaskCount int               `json:"taskCount"`
	TaskStats *ProjectTaskStats `json:"taskStats,omitempty"`
	Tasks     []Task            `json:"tasks,omitempty"`
}

type ProjectTaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
}

type ProjectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	Order       int        `json:"order"`
	ProjectID   string     `json:"projectId"`
	CreatorID   string     `json:"creatorId"`
	AssigneeID  *string    `json:"assigneeId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Project      *ProjectRef `json:"project,omitempty"`
	Creator      *UserRef    `json:"creator,omitempty"`
	Assignee     *UserRef    `json:"assignee,omitempty"`
	Tags         []Tag       `json:"tags,omitempty"`
	Comments     []Comment   `json:"comments,omitempty"`
	CommentCount int         `json:"commentCount"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`

	TaskCount int       `json:"taskCount"`
	Tasks     []TaskRef `json:"tasks,omitempty"`
}

type TaskRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	TaskID    string    `json:"taskId"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *UserRef `json:"author,omitempty"`
	Task   *TaskRef `json:"task,omitempty"`
}

// Meta carries pagination details on list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	InReview   int `json:"inReview"`
	Completed  int `json:"completed"`
}

type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	Urgent int `json:"urgent"`
}

type Dashboard struct {
	TasksByStatus   StatusCounts   `json:"tasksByStatus"`
	TasksByPriority PriorityCounts `json:"tasksByPriority"`

	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	TotalProjects  int `json:"totalProjects"`

	Overdue     int `json:"overdue"`
	DueToday    int `json:"dueToday"`
	DueThisWeek int `json:"dueThisWeek"`

	CompletionRate    int `json:"completionRate"`
	CompletedThisWeek int `json:"completedThisWeek"`
}

type ProjectStats struct {
	Total          int            `json:"total"`
	ByStatus       StatusCounts   `json:"byStatus"`
	ByPriority     PriorityCounts `json:"byPriority"`
	CompletionRate int            `json:"completionRate"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Productivity struct {
	Productivity   []DayCount `json:"productivity"`
	TotalCompleted int        `json:"totalCompleted"`
	AveragePerDay  float64    `json:"averagePerDay"`
}

type Activity struct {
	RecentTasks    []Task    `json:"recentTasks"`
	RecentComments []Comment `json:"recentComments"`
}

type Health struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
}
