package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/taskboard/internal/auth"
	"github.com/eleven-am/taskboard/internal/config"
	"github.com/eleven-am/taskboard/internal/logger"
	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with development fixtures",
	Long: `Seed wipes all existing rows and inserts a small set of users,
projects, tasks, tags and comments for local development.

Accounts created:
  admin@prou.com / admin123 (ADMIN)
  john@prou.com  / user123
  jane@prou.com  / user123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Database.URL, store.Options{
			MaxConnections: cfg.Database.MaxConnections,
			MaxIdle:        cfg.Database.MaxIdle,
		})
		if err != nil {
			return err
		}
		defer st.Close()

		return runSeed(cmd.Context(), st, auth.NewHasher(cfg.Password.Cost))
	},
}

func runSeed(ctx context.Context, st *store.Store, hasher *auth.Hasher) error {
	log := logger.CLI()
	log.Info("seeding database")

	// Wipe in dependency order so foreign keys never block the delete.
	for _, table := range []string{"comments", "task_tags", "tasks", "projects", "tags", "users"} {
		if _, err := st.DB().ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	adminHash, err := hasher.Hash("admin123")
	if err != nil {
		return err
	}
	userHash, err := hasher.Hash("user123")
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     "admin@prou.com",
		Password:  adminHash,
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
		Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=admin",
	}
	john := &models.User{
		Email:     "john@prou.com",
		Password:  userHash,
		FirstName: "John",
		LastName:  "Doe",
		Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=john",
	}
	jane := &models.User{
		Email:     "jane@prou.com",
		Password:  userHash,
		FirstName: "Jane",
		LastName:  "Smith",
		Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=jane",
	}
	for _, u := range []*models.User{admin, john, jane} {
		if err := st.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("creating user %s: %w", u.Email, err)
		}
	}

	tagDefs := []struct{ name, color string }{
		{"Frontend", "#3b82f6"},
		{"Backend", "#10b981"},
		{"Bug", "#ef4444"},
		{"Feature", "#8b5cf6"},
		{"Documentation", "#f59e0b"},
		{"Testing", "#06b6d4"},
	}
	tags := make([]*models.Tag, len(tagDefs))
	for i, d := range tagDefs {
		tags[i] = &models.Tag{Name: d.name, Color: d.color}
		if err := st.Tags.Create(ctx, tags[i]); err != nil {
			return fmt.Errorf("creating tag %s: %w", d.name, err)
		}
	}

	webApp := &models.Project{
		Name:        "ProU Web Application",
		Description: "Main web application for task management with modern UI/UX",
		Color:       "#6366f1",
		Icon:        "rocket",
		Status:      models.ProjectActive,
		OwnerID:     admin.ID,
	}
	mobileApp := &models.Project{
		Name:        "Mobile App Development",
		Description: "React Native mobile application for iOS and Android",
		Color:       "#10b981",
		Icon:        "smartphone",
		Status:      models.ProjectActive,
		OwnerID:     john.ID,
	}
	apiDocs := &models.Project{
		Name:        "API Documentation",
		Description: "Comprehensive API documentation and developer guides",
		Color:       "#f59e0b",
		Icon:        "book",
		Status:      models.ProjectActive,
		OwnerID:     jane.ID,
	}
	for _, p := range []*models.Project{webApp, mobileApp, apiDocs} {
		if err := st.Projects.Create(ctx, p); err != nil {
			return fmt.Errorf("creating project %s: %w", p.Name, err)
		}
	}

	now := time.Now()
	due := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	seedTasks := []struct {
		task   models.Task
		tagIDs []string
	}{
		{
			task: models.Task{
				Title:       "Design dashboard layout",
				Description: "Create wireframes and mockups for the main dashboard view",
				Status:      models.TaskCompleted,
				Priority:    models.PriorityHigh,
				ProjectID:   webApp.ID,
				CreatorID:   admin.ID,
				AssigneeID:  &john.ID,
				CompletedAt: &now,
			},
			tagIDs: []string{tags[0].ID, tags[3].ID},
		},
		{
			task: models.Task{
				Title:       "Implement user authentication",
				Description: "Set up JWT-based authentication with login, register, and logout",
				Status:      models.TaskCompleted,
				Priority:    models.PriorityUrgent,
				ProjectID:   webApp.ID,
				CreatorID:   admin.ID,
				AssigneeID:  &admin.ID,
				CompletedAt: &now,
			},
			tagIDs: []string{tags[1].ID, tags[3].ID},
		},
		{
			task: models.Task{
				Title:       "Create task CRUD API endpoints",
				Description: "Implement RESTful endpoints for task management operations",
				Status:      models.TaskInProgress,
				Priority:    models.PriorityHigh,
				ProjectID:   webApp.ID,
				CreatorID:   admin.ID,
				AssigneeID:  &john.ID,
				DueDate:     due(3),
			},
			tagIDs: []string{tags[1].ID},
		},
		{
			task: models.Task{
				Title:       "Add dark mode support",
				Description: "Implement theme switching with dark/light mode toggle",
				Status:      models.TaskTodo,
				Priority:    models.PriorityMedium,
				ProjectID:   webApp.ID,
				CreatorID:   john.ID,
				AssigneeID:  &jane.ID,
				DueDate:     due(7),
			},
			tagIDs: []string{tags[0].ID, tags[3].ID},
		},
		{
			task: models.Task{
				Title:       "Write unit tests for API",
				Description: "Add comprehensive test coverage for all API endpoints",
				Status:      models.TaskTodo,
				Priority:    models.PriorityMedium,
				ProjectID:   webApp.ID,
				CreatorID:   admin.ID,
				DueDate:     due(10),
			},
			tagIDs: []string{tags[5].ID},
		},
		{
			task: models.Task{
				Title:       "Fix navigation bug on mobile",
				Description: "Sidebar not closing properly on mobile devices after navigation",
				Status:      models.TaskInReview,
				Priority:    models.PriorityHigh,
				ProjectID:   webApp.ID,
				CreatorID:   jane.ID,
				AssigneeID:  &john.ID,
			},
			tagIDs: []string{tags[0].ID, tags[2].ID},
		},
		{
			task: models.Task{
				Title:       "Set up React Native project",
				Description: "Initialize project with Expo and configure development environment",
				Status:      models.TaskCompleted,
				Priority:    models.PriorityHigh,
				ProjectID:   mobileApp.ID,
				CreatorID:   john.ID,
				AssigneeID:  &john.ID,
				CompletedAt: &now,
			},
		},
		{
			task: models.Task{
				Title:       "Design mobile navigation",
				Description: "Implement bottom tab navigation and stack navigators",
				Status:      models.TaskInProgress,
				Priority:    models.PriorityMedium,
				ProjectID:   mobileApp.ID,
				CreatorID:   john.ID,
				AssigneeID:  &jane.ID,
			},
		},
		{
			task: models.Task{
				Title:       "Document authentication endpoints",
				Description: "Write comprehensive documentation for auth API with examples",
				Status:      models.TaskCompleted,
				Priority:    models.PriorityHigh,
				ProjectID:   apiDocs.ID,
				CreatorID:   jane.ID,
				AssigneeID:  &jane.ID,
				CompletedAt: &now,
			},
			tagIDs: []string{tags[4].ID},
		},
		{
			task: models.Task{
				Title:       "Create API usage examples",
				Description: "Add code examples in multiple languages (JavaScript, Python, cURL)",
				Status:      models.TaskTodo,
				Priority:    models.PriorityLow,
				ProjectID:   apiDocs.ID,
				CreatorID:   jane.ID,
				DueDate:     due(14),
			},
			tagIDs: []string{tags[4].ID},
		},
	}

	created := make([]*models.Task, len(seedTasks))
	for i := range seedTasks {
		t := &seedTasks[i].task
		if err := st.CreateTaskWithTags(ctx, t, seedTasks[i].tagIDs); err != nil {
			return fmt.Errorf("creating task %q: %w", t.Title, err)
		}
		if t.CompletedAt != nil {
			if _, err := st.DB().ExecContext(ctx,
				"UPDATE tasks SET completed_at = $1 WHERE id = $2", t.CompletedAt, t.ID); err != nil {
				return fmt.Errorf("stamping completion on %q: %w", t.Title, err)
			}
		}
		created[i] = t
	}

	comments := []*models.Comment{
		{
			Content:  "Great progress on this! The design looks clean and modern.",
			TaskID:   created[0].ID,
			AuthorID: admin.ID,
		},
		{
			Content:  "I've added JWT refresh token support as well.",
			TaskID:   created[1].ID,
			AuthorID: admin.ID,
		},
		{
			Content:  "Working on the validation middleware now. Should be done by tomorrow.",
			TaskID:   created[2].ID,
			AuthorID: john.ID,
		},
	}
	for _, c := range comments {
		if err := st.Comments.Create(ctx, c); err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}
	}

	log.Info("seeded 3 users, %d tags, 3 projects, %d tasks, %d comments",
		len(tags), len(created), len(comments))
	return nil
}
