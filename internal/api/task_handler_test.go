package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwire/taskwire-api/internal/api"
	"github.com/taskwire/taskwire-api/internal/api/shared"
	"github.com/taskwire/taskwire-api/internal/mocks"
	"github.com/taskwire/taskwire-api/internal/service"
)

type taskAPIFixture struct {
	router *chi.Mux
	tasks  *mocks.MockTaskStore
}

// identityMiddleware injects a fixed user ID the way the auth middleware
// would after validating a token.
func identityMiddleware(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTaskAPIFixture(t *testing.T, userID uuid.UUID) *taskAPIFixture {
	t.Helper()

	tasks := mocks.NewMockTaskStore()
	svc, err := service.NewTaskService(
		tasks,
		mocks.NewMockAuditStore(),
		mocks.NewMockEventEmitter(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)

	handler := api.NewTaskHandler(svc)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(identityMiddleware(userID))
		r.Get("/api/tasks", handler.List)
		r.Post("/api/tasks", handler.Create)
		r.Put("/api/tasks/{id}", handler.Update)
		r.Delete("/api/tasks/{id}", handler.Delete)
	})

	return &taskAPIFixture{router: router, tasks: tasks}
}

func (f *taskAPIFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *taskAPIFixture) createTask(t *testing.T, assignee uuid.UUID, title string) api.TaskResponse {
	t.Helper()

	rr := f.do(t, http.MethodPost, "/api/tasks", map[string]string{
		"title":       title,
		"description": "about " + title,
		"dueDate":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"assignedTo":  assignee.String(),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created api.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	return created
}

func TestTaskHandlerCreate(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()

	t.Run("creates with defaults", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		created := f.createTask(t, assignee, "Ship release")
		assert.Equal(t, "Ship release", created.Title)
		assert.Equal(t, "pending", created.Status)
		assert.Equal(t, "medium", created.Priority)
		assert.Equal(t, creator, created.CreatedBy)
		assert.Equal(t, assignee, created.AssignedTo)
		assert.NotEqual(t, uuid.Nil, created.ID)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		rr := f.do(t, http.MethodPost, "/api/tasks", map[string]string{
			"description": "no title",
			"dueDate":     time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			"assignedTo":  assignee.String(),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{not json"))
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskHandlerList(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()

	t.Run("search filter narrows by title", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)
		f.createTask(t, assignee, "Alpha")
		f.createTask(t, assignee, "Beta")
		f.createTask(t, assignee, "Gamma")

		rr := f.do(t, http.MethodGet, "/api/tasks?search=eta", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var listed []api.TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
		require.Len(t, listed, 1)
		assert.Equal(t, "Beta", listed[0].Title)
	})

	t.Run("status filter is exact", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)
		f.createTask(t, assignee, "Alpha")

		rr := f.do(t, http.MethodGet, "/api/tasks?status=completed", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var listed []api.TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
		assert.Empty(t, listed)
	})

	t.Run("invalid dueDate rejected", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		rr := f.do(t, http.MethodGet, "/api/tasks?dueDate=someday", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("status=overdue selects past-due tasks", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		rr := f.do(t, http.MethodPost, "/api/tasks", map[string]string{
			"title":       "Late",
			"description": "slipped",
			"dueDate":     time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
			"assignedTo":  assignee.String(),
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		f.createTask(t, assignee, "On time")

		rr = f.do(t, http.MethodGet, "/api/tasks?status=overdue", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var listed []api.TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
		require.Len(t, listed, 1)
		assert.Equal(t, "Late", listed[0].Title)
		assert.Equal(t, "overdue", listed[0].Status)
	})
}

func TestTaskHandlerUpdate(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()

	t.Run("partial update", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)
		created := f.createTask(t, assignee, "Ship release")

		rr := f.do(t, http.MethodPut, "/api/tasks/"+created.ID.String(), map[string]string{
			"status": "completed",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated api.TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "completed", updated.Status)
		assert.Equal(t, created.Title, updated.Title)
	})

	t.Run("unknown fields in body are ignored", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)
		created := f.createTask(t, assignee, "Ship release")

		rr := f.do(t, http.MethodPut, "/api/tasks/"+created.ID.String(), map[string]interface{}{
			"title":     "Renamed",
			"id":        uuid.New().String(),
			"createdBy": uuid.New().String(),
			"bogus":     true,
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var updated api.TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedBy, updated.CreatedBy)
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		rr := f.do(t, http.MethodPut, "/api/tasks/"+uuid.New().String(), map[string]string{
			"title": "nope",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		rr := f.do(t, http.MethodPut, "/api/tasks/not-a-uuid", map[string]string{
			"title": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskHandlerDelete(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()

	t.Run("deletes and returns 204", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)
		created := f.createTask(t, assignee, "Ship release")

		rr := f.do(t, http.MethodDelete, "/api/tasks/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.NotContains(t, f.tasks.Tasks, created.ID)
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		f := newTaskAPIFixture(t, creator)

		rr := f.do(t, http.MethodDelete, "/api/tasks/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
