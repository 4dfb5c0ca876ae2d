// Package stats reduces task rows into the dashboard, project, and
// productivity aggregates. All reductions are pure functions over rows the
// store has already scoped to the requesting user.
package stats

import (
	"math"
	"time"

	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/store"
)

// StatusCounts breaks tasks down by status.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	InReview   int `json:"inReview"`
	Completed  int `json:"completed"`
}

// PriorityCounts breaks tasks down by priority.
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	Urgent int `json:"urgent"`
}

// Dashboard is the aggregate returned by GET /api/stats/dashboard.
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

// startOfDay truncates t to midnight in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// completionRate is completed/total as a percentage rounded to the nearest
// integer, 0 when there are no tasks.
func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// BuildDashboard reduces the user's visible tasks into dashboard counts.
// now anchors the day/week boundaries.
func BuildDashboard(rows []store.StatRow, totalProjects int, now time.Time) Dashboard {
	today := startOfDay(now)
	week := startOfWeek(now)
	weekEnd := week.AddDate(0, 0, 7)

	var d Dashboard
	d.TotalTasks = len(rows)
	d.TotalProjects = totalProjects

	for _, row := range rows {
		switch row.Status {
		case models.TaskTodo:
			d.TasksByStatus.Todo++
		case models.TaskInProgress:
			d.TasksByStatus.InProgress++
		case models.TaskInReview:
			d.TasksByStatus.InReview++
		case models.TaskCompleted:
			d.TasksByStatus.Completed++
		}

		switch row.Priority {
		case models.PriorityLow:
			d.TasksByPriority.Low++
		case models.PriorityMedium:
			d.TasksByPriority.Medium++
		case models.PriorityHigh:
			d.TasksByPriority.High++
		case models.PriorityUrgent:
			d.TasksByPriority.Urgent++
		}

		completed := row.Status == models.TaskCompleted

		// Due dates come back from the driver in UTC; bucket them in
		// now's location so the day boundaries match the caller's clock.
		if row.DueDate != nil && !completed {
			due := row.DueDate.In(now.Location())
			if due.Before(today) {
				d.Overdue++
			}
			if startOfDay(due).Equal(today) {
				d.DueToday++
			}
			if !due.Before(today) && due.Before(weekEnd) {
				d.DueThisWeek++
			}
		}

		if row.CompletedAt != nil && !row.CompletedAt.Before(week) {
			d.CompletedThisWeek++
		}
	}

	d.CompletedTasks = d.TasksByStatus.Completed
	d.CompletionRate = completionRate(d.CompletedTasks, d.TotalTasks)

	return d
}

// ProjectStats is the aggregate returned by GET /api/projects/:id/stats.
type ProjectStats struct {
	Total          int            `json:"total"`
	ByStatus       StatusCounts   `json:"byStatus"`
	ByPriority     PriorityCounts `json:"byPriority"`
	CompletionRate int            `json:"completionRate"`
}

// BuildProjectStats reduces one project's tasks into status and priority
// counts plus a completion rate.
func BuildProjectStats(rows []store.StatRow) ProjectStats {
	var p ProjectStats
	p.Total = len(rows)

	for _, row := range rows {
		switch row.Status {
		case models.TaskTodo:
			p.ByStatus.Todo++
		case models.TaskInProgress:
			p.ByStatus.InProgress++
		case models.TaskInReview:
			p.ByStatus.InReview++
		case models.TaskCompleted:
			p.ByStatus.Completed++
		}

		switch row.Priority {
		case models.PriorityLow:
			p.ByPriority.Low++
		case models.PriorityMedium:
			p.ByPriority.Medium++
		case models.PriorityHigh:
			p.ByPriority.High++
		case models.PriorityUrgent:
			p.ByPriority.Urgent++
		}
	}

	p.CompletionRate = completionRate(p.ByStatus.Completed, p.Total)
	return p
}

// DayCount is one point in the productivity series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Productivity is the aggregate returned by GET /api/stats/productivity.
type Productivity struct {
	Productivity   []DayCount `json:"productivity"`
	TotalCompleted int        `json:"totalCompleted"`
	AveragePerDay  float64    `json:"averagePerDay"`
}

// BuildProductivity builds a dense date->count series for the trailing
// days window ending at now. Days with no completions appear with a zero
// count.
func BuildProductivity(completions []time.Time, days int, now time.Time) Productivity {
	if days <= 0 {
		days = 30
	}

	counts := make(map[string]int, days)
	order := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := now.AddDate(0, 0, -i).Format("2006-01-02")
		counts[key] = 0
		order = append(order, key)
	}

	for _, stamp := range completions {
		key := stamp.In(now.Location()).Format("2006-01-02")
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	series := make([]DayCount, len(order))
	for i, key := range order {
		series[i] = DayCount{Date: key, Count: counts[key]}
	}

	return Productivity{
		Productivity:   series,
		TotalCompleted: len(completions),
		AveragePerDay:  float64(len(completions)) / float64(days),
	}
}
