package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAPIServer returns a test server that records the last request and
// answers with the given status and envelope body.
func newAPIServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *[]byte) {
	t.Helper()
	var last http.Request
	var payload []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r
		last.Header = r.Header.Clone()
		payload, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last, &payload
}

func TestClientSendsBearerToken(t *testing.T) {
	srv, last, _ := newAPIServer(t, http.StatusOK, `{"success":true,"data":{"status":"healthy"}}`)

	c := New(srv.URL, Options{Token: "tok123"})
	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "Bearer tok123", last.Header.Get("Authorization"))
}

func TestClientOmitsAuthorizationWhenLoggedOut(t *testing.T) {
	srv, last, _ := newAPIServer(t, http.StatusOK, `{"success":true,"data":{"status":"healthy"}}`)

	c := New(srv.URL, Options{})
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Empty(t, last.Header.Get("Authorization"))
}

func TestLoginStoresToken(t *testing.T) {
	srv, last, payload := newAPIServer(t, http.StatusOK,
		`{"success":true,"message":"Login successful","data":{"user":{"id":"u1","email":"john@example.com"},"token":"fresh-token"}}`)

	c := New(srv.URL, Options{})
	res, err := c.Login(context.Background(), "john@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "fresh-token", res.Token)
	assert.Equal(t, "fresh-token", c.Token())
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/api/auth/login", last.URL.Path)
	assert.JSONEq(t, `{"email":"john@example.com","password":"secret1"}`, string(*payload))
}

func TestListTasksQueryAndMeta(t *testing.T) {
	srv, last, _ := newAPIServer(t, http.StatusOK,
		`{"success":true,"data":[{"id":"t1","title":"First"}],"meta":{"page":2,"limit":10,"total":25,"totalPages":3}}`)

	c := New(srv.URL, Options{Token: "tok"})
	tasks, meta, err := c.ListTasks(context.Background(), ListTasksOptions{
		ProjectID: "p1",
		Status:    "TODO",
		Page:      Page{Page: 2, Limit: 10},
	})
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "First", tasks[0].Title)
	require.NotNil(t, meta)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	q := last.URL.Query()
	assert.Equal(t, "p1", q.Get("projectId"))
	assert.Equal(t, "TODO", q.Get("status"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Empty(t, q.Get("search"))
}

func TestAPIErrorMapping(t *testing.T) {
	srv, _, _ := newAPIServer(t, http.StatusNotFound,
		`{"success":false,"error":{"code":"NOT_FOUND","message":"Record not found"}}`)

	c := New(srv.URL, Options{Token: "tok"})
	_, err := c.GetTask(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Record not found", apiErr.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv, _, _ := newAPIServer(t, http.StatusUnprocessableEntity,
		`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","errors":[{"field":"email","message":"Please provide a valid email address"}]}}`)

	c := New(srv.URL, Options{})
	_, err := c.Register(context.Background(), RegisterRequest{Email: "bad"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, IsValidation(err))
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "email", apiErr.Fields[0].Field)
}

func TestUnauthorizedClearsTokenAndNotifies(t *testing.T) {
	srv, _, _ := newAPIServer(t, http.StatusUnauthorized,
		`{"success":false,"error":{"code":"UNAUTHORIZED","message":"Invalid or expired token"}}`)

	c := New(srv.URL, Options{Token: "stale"})
	notified := false
	c.OnUnauthorized = func() { notified = true }

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, c.Token())
	assert.True(t, notified)
}

func TestUpdateTaskNullableFields(t *testing.T) {
	t.Run("omitted fields stay out of the payload", func(t *testing.T) {
		raw, err := json.Marshal(UpdateTaskRequest{Order: intPtr(3)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"order":3}`, string(raw))
	})

	t.Run("NullValue sends an explicit null", func(t *testing.T) {
		raw, err := json.Marshal(UpdateTaskRequest{
			AssigneeID: NullValue[string](),
			DueDate:    NullValue[time.Time](),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"assigneeId":null,"dueDate":null}`, string(raw))
	})

	t.Run("Value sends the value", func(t *testing.T) {
		raw, err := json.Marshal(UpdateTaskRequest{AssigneeID: Value("u2")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"assigneeId":"u2"}`, string(raw))
	})
}

func intPtr(v int) *int { return &v }
