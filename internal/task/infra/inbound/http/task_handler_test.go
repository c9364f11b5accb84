package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	authHTTP "github.com/davicafu/mstask/internal/auth/infra/inbound/http"
	"github.com/davicafu/mstask/internal/task/application"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
	"github.com/davicafu/mstask/tests/mocks"
)

const token = "Bearer valid"

type testServer struct {
	router    *gin.Engine
	repo      *mocks.InMemoryTaskRepo
	validator *mocks.FakeValidator
}

func newTestServer() testServer {
	gin.SetMode(gin.TestMode)
	repo := mocks.NewInMemoryTaskRepo()
	repo.Now = mocks.NewSteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	// sin caché: los tests leen siempre del repo
	service := application.NewTaskService(repo, nil, mocks.NewInMemoryOutbox(), zap.NewNop())
	validator := mocks.NewFakeValidator(nil)

	r := gin.New()
	RegisterTaskRoutes(r, NewTaskHandler(service, zap.NewNop()), authHTTP.RequireToken(validator, zap.NewNop()))
	return testServer{router: r, repo: repo, validator: validator}
}

func (s testServer) do(t *testing.T, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeTasks(t *testing.T, w *httptest.ResponseRecorder) []taskDomain.Task {
	t.Helper()
	var out struct {
		Tasks []taskDomain.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Tasks
}

var reportTask = map[string]string{
	"user":     "u1",
	"name":     "Write report",
	"state":    "pending",
	"priority": "high",
	"dueDate":  "2024-01-01",
}

func TestTaskLifecycle_EndToEnd(t *testing.T) {
	s := newTestServer()

	// create
	w := s.do(t, http.MethodPost, "/ms/task/create", token, reportTask)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.JSONEq(t, `"Task Successfully Created"`, string(body["message"]))

	var created taskDomain.Task
	require.NoError(t, json.Unmarshal(body["task"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Write report", created.Name)
	assert.Equal(t, taskDomain.PriorityHigh, created.Priority)
	assert.Equal(t, "2024-01-01", created.DueDate)

	// /high lo contiene
	w = s.do(t, http.MethodGet, "/ms/task/high?userID=u1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	high := decodeTasks(t, w)
	require.Len(t, high, 1)
	assert.Equal(t, created.ID, high[0].ID)

	// completar
	w = s.do(t, http.MethodPut, "/ms/task/"+created.ID, token, map[string]string{"state": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.JSONEq(t, `"Task Updated Successfully"`, string(body["message"]))
	var updated taskDomain.Task
	require.NoError(t, json.Unmarshal(body["updatedTask"], &updated))
	assert.Equal(t, taskDomain.TaskCompleted, updated.State)
	assert.Equal(t, created.ID, updated.ID)

	// /high vacío, /complete lo tiene
	w = s.do(t, http.MethodGet, "/ms/task/high?userID=u1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[]}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/ms/task/complete?userID=u1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	completed := decodeTasks(t, w)
	require.Len(t, completed, 1)
	assert.Equal(t, created.ID, completed[0].ID)

	// getById devuelve la tarea sin envolver
	w = s.do(t, http.MethodGet, "/ms/task/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got taskDomain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)

	// delete
	w = s.do(t, http.MethodDelete, "/ms/task/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.JSONEq(t, `"Task Deleted Successfully"`, string(body["message"]))
	var deleted taskDomain.Task
	require.NoError(t, json.Unmarshal(body["taskDeleted"], &deleted))
	assert.Equal(t, created.ID, deleted.ID)

	w = s.do(t, http.MethodGet, "/ms/task/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer()

	for _, method := range []string{http.MethodGet, http.MethodDelete, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			var body interface{}
			if method == http.MethodPut {
				body = map[string]string{"name": "x"}
			}
			w := s.do(t, method, "/ms/task/does-not-exist", token, body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"message":"Task Not Found"}`, w.Body.String())
		})
	}
}

func TestUpdate_EmptyBodyIsEmptyPatch(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/ms/task/create", token, reportTask)
	require.Equal(t, http.StatusOK, w.Code)
	var created taskDomain.Task
	require.NoError(t, json.Unmarshal(decode(t, w)["task"], &created))

	w = s.do(t, http.MethodPut, "/ms/task/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var updated taskDomain.Task
	require.NoError(t, json.Unmarshal(decode(t, w)["updatedTask"], &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.State, updated.State)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	w = s.do(t, http.MethodPut, "/ms/task/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Task Not Found"}`, w.Body.String())
}

func TestUpdate_MalformedBody(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPut, "/ms/task/any", token, "{not json")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error updating task")
}

func TestUnauthorized_ServiceUntouched(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/ms/task/create", "", reportTask)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"No token provided"}`, w.Body.String())
	assert.Zero(t, s.repo.Len())

	s.validator.Err = errors.New("rejected")
	w = s.do(t, http.MethodGet, "/ms/task/pending?userID=u1", "Bearer bad", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"Invalid token"}`, w.Body.String())
}

func TestCreate_MalformedBody(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/ms/task/create", token, "{not json")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Contains(t, string(body["message"]), "error creating task")
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/ms/task/create", token, map[string]string{"name": "solo nombre"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error creating task")
	assert.Zero(t, s.repo.Len())
}

func TestList_StoreFailure(t *testing.T) {
	s := newTestServer()
	s.repo.Err = errors.New("db down")

	w := s.do(t, http.MethodGet, "/ms/task/low?userID=u1", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"error fetching pending low priority tasks: db down"}`, w.Body.String())
}

func TestListMean_OnlyMediumPending(t *testing.T) {
	s := newTestServer()

	medium := map[string]string{"user": "u1", "name": "m", "state": "pending", "priority": "medium", "dueDate": "d"}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/ms/task/create", token, medium).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/ms/task/create", token, reportTask).Code)

	w := s.do(t, http.MethodGet, "/ms/task/mean?userID=u1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeTasks(t, w)
	require.Len(t, tasks, 1)
	assert.Equal(t, "m", tasks[0].Name)

	w = s.do(t, http.MethodGet, "/ms/task/pending?userID=u1", token, nil)
	tasks = decodeTasks(t, w)
	require.Len(t, tasks, 2)
	// más reciente primero
	assert.Equal(t, "Write report", tasks[0].Name)
}
