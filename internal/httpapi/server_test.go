package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eleven-am/taskboard/internal/config"
	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/store"
)

const (
	testUserID    = "7d2f1b4e-9c3a-4f5e-8b6d-0a1b2c3d4e5f"
	testTaskID    = "0b9f2a6e-5f0a-4d2e-8c3b-1a2b3c4d5e6f"
	testProjectID = "1c8e3b7f-6a1b-4e3f-9d4c-2b3c4d5e6f70"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Server.AllowedOrigin = "http://localhost:3000"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = "1h"
	cfg.Password.MinLength = 6
	cfg.Password.Cost = bcrypt.MinCost
	cfg.Pagination.DefaultLimit = 10
	cfg.Pagination.MaxLimit = 100

	return New(store.New(sqlx.NewDb(db, "postgres")), cfg), mock
}

func userRows(id, email, hash string, role models.Role) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "password", "first_name", "last_name",
		"role", "avatar", "created_at", "updated_at",
	}).AddRow(id, email, hash, "John", "Doe", role, "", now, now)
}

func issueToken(t *testing.T, s *Server, id, email string, role models.Role) string {
	t.Helper()
	token, err := s.tokens.Issue(id, email, role)
	require.NoError(t, err)
	return token
}

func doJSON(handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(s.Routes(), http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "test", data["environment"])
	assert.NotEmpty(t, data["timestamp"])
}

func TestRegister(t *testing.T) {
	t.Run("creates the account and returns a token", func(t *testing.T) {
		s, mock := newTestServer(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("new@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := doJSON(s.Routes(), http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":     "New@Example.com",
			"password":  "secret1",
			"firstName": "John",
			"lastName":  "Doe",
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "Registration successful", body["message"])
		data := body["data"].(map[string]interface{})
		assert.NotEmpty(t, data["token"])
		user := data["user"].(map[string]interface{})
		assert.Equal(t, "new@example.com", user["email"])
		assert.Equal(t, "USER", user["role"])
		assert.NotContains(t, rec.Body.String(), `"password"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing email conflicts", func(t *testing.T) {
		s, mock := newTestServer(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("taken@example.com").
			WillReturnRows(userRows(testUserID, "taken@example.com", "hash", models.RoleUser))

		rec := doJSON(s.Routes(), http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":     "taken@example.com",
			"password":  "secret1",
			"firstName": "John",
			"lastName":  "Doe",
		})

		require.Equal(t, http.StatusConflict, rec.Code)
		errObj := decodeEnvelope(t, rec)["error"].(map[string]interface{})
		assert.Equal(t, "CONFLICT", errObj["code"])
		assert.Equal(t, "User with this email already exists", errObj["message"])
	})

	t.Run("invalid input is a 422 with field errors", func(t *testing.T) {
		s, _ := newTestServer(t)
		rec := doJSON(s.Routes(), http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "not-an-email",
			"password": "short",
		})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errObj := decodeEnvelope(t, rec)["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
		assert.NotEmpty(t, errObj["errors"])
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid credentials return a token", func(t *testing.T) {
		s, mock := newTestServer(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("john@example.com").
			WillReturnRows(userRows(testUserID, "john@example.com", string(hash), models.RoleUser))

		rec := doJSON(s.Routes(), http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "john@example.com",
			"password": "secret1",
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "Login successful", body["message"])
		data := body["data"].(map[string]interface{})
		assert.NotEmpty(t, data["token"])
	})

	t.Run("wrong password and unknown email share one message", func(t *testing.T) {
		s, mock := newTestServer(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WillReturnRows(userRows(testUserID, "john@example.com", string(hash), models.RoleUser))
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WillReturnError(sql.ErrNoRows)

		badPassword := doJSON(s.Routes(), http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "john@example.com",
			"password": "wrongpass1",
		})
		unknownEmail := doJSON(s.Routes(), http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "ghost@example.com",
			"password": "secret1",
		})

		for _, rec := range []*httptest.ResponseRecorder{badPassword, unknownEmail} {
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			errObj := decodeEnvelope(t, rec)["error"].(map[string]interface{})
			assert.Equal(t, "Invalid email or password", errObj["message"])
		}
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		s, _ := newTestServer(t)
		rec := doJSON(s.Routes(), http.MethodGet, "/api/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "No token provided")
	})

	t.Run("garbage token", func(t *testing.T) {
		s, _ := newTestServer(t)
		rec := doJSON(s.Routes(), http.MethodGet, "/api/auth/me", "not.a.jwt", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	})

	t.Run("deleted account", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "gone@example.com", models.RoleUser)
		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(testUserID).
			WillReturnError(sql.ErrNoRows)

		rec := doJSON(s.Routes(), http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "User no longer exists")
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "john@example.com", models.RoleUser)
		// Middleware re-fetch, then the profile read and its counts.
		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(testUserID).
			WillReturnRows(userRows(testUserID, "john@example.com", "hash", models.RoleUser))
		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(testUserID).
			WillReturnRows(userRows(testUserID, "john@example.com", "hash", models.RoleUser))
		mock.ExpectQuery("AS assigned_tasks").
			WithArgs(testUserID).
			WillReturnRows(sqlmock.NewRows([]string{"projects", "tasks", "assigned_tasks"}).AddRow(2, 5, 3))

		rec := doJSON(s.Routes(), http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "john@example.com", data["email"])
		counts := data["counts"].(map[string]interface{})
		assert.EqualValues(t, 3, counts["assignedTasks"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func expectAuthUser(mock sqlmock.Sqlmock, id string, role models.Role) {
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(userRows(id, "user@example.com", "hash", role))
}

func accessRows(creatorID string, assigneeID *string, ownerID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"creator_id", "assignee_id", "project_owner_id"}).
		AddRow(creatorID, assigneeID, ownerID)
}

func TestDeleteTaskAccess(t *testing.T) {
	t.Run("stranger is forbidden", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "user@example.com", models.RoleUser)
		expectAuthUser(mock, testUserID, models.RoleUser)
		mock.ExpectQuery("project_owner_id").
			WithArgs(testTaskID).
			WillReturnRows(accessRows("someone-else", nil, "owner-else"))

		rec := doJSON(s.Routes(), http.MethodDelete, "/api/tasks/"+testTaskID, token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "You do not have access to this task")
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "admin@example.com", models.RoleAdmin)
		expectAuthUser(mock, testUserID, models.RoleAdmin)
		mock.ExpectQuery("project_owner_id").
			WithArgs(testTaskID).
			WillReturnRows(accessRows("someone-else", nil, "owner-else"))
		mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1`).
			WithArgs(testTaskID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := doJSON(s.Routes(), http.MethodDelete, "/api/tasks/"+testTaskID, token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing task is 404", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "user@example.com", models.RoleUser)
		expectAuthUser(mock, testUserID, models.RoleUser)
		mock.ExpectQuery("project_owner_id").
			WithArgs(testTaskID).
			WillReturnError(sql.ErrNoRows)

		rec := doJSON(s.Routes(), http.MethodDelete, "/api/tasks/"+testTaskID, token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task not found")
	})
}

func TestReorderEndpoint(t *testing.T) {
	t.Run("requires a project and tasks", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "user@example.com", models.RoleUser)
		expectAuthUser(mock, testUserID, models.RoleUser)

		rec := doJSON(s.Routes(), http.MethodPatch, "/api/tasks/reorder", token, map[string]interface{}{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Project ID and tasks array are required")
	})

	t.Run("owner reorders in one transaction", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "user@example.com", models.RoleUser)
		expectAuthUser(mock, testUserID, models.RoleUser)
		mock.ExpectQuery(`SELECT owner_id FROM projects WHERE id = \$1`).
			WithArgs(testProjectID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(testUserID))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tasks SET sort_order").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE tasks SET sort_order").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rec := doJSON(s.Routes(), http.MethodPatch, "/api/tasks/reorder", token, map[string]interface{}{
			"projectId": testProjectID,
			"tasks": []map[string]interface{}{
				{"id": "t1", "order": 1},
				{"id": "t2", "order": 2},
			},
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Tasks reordered successfully")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		s, mock := newTestServer(t)
		token := issueToken(t, s, testUserID, "user@example.com", models.RoleUser)
		expectAuthUser(mock, testUserID, models.RoleUser)
		mock.ExpectQuery(`SELECT owner_id FROM projects WHERE id = \$1`).
			WithArgs(testProjectID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("someone-else"))

		rec := doJSON(s.Routes(), http.MethodPatch, "/api/tasks/reorder", token, map[string]interface{}{
			"projectId": testProjectID,
			"tasks":     []map[string]interface{}{{"id": "t1", "order": 1}},
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestPaginationParams(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"?page=3&limit=25", 3, 25},
		{"?limit=500", 1, 100},
		{"?page=0&limit=0", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/tasks"+tc.query, nil)
		page, limit := s.pagination(r)
		assert.Equal(t, tc.wantPage, page, "query %q", tc.query)
		assert.Equal(t, tc.wantLimit, limit, "query %q", tc.query)
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(s.Routes(), http.MethodGet, "/api/nothing-here", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	errObj := decodeEnvelope(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
	assert.Contains(t, errObj["message"], "/api/nothing-here")
}
