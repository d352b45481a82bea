package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deploy-agent/internal/jobstore"
	"github.com/jonathan/deploy-agent/internal/types"
)

type fakeRunner struct {
	mu   sync.Mutex
	jobs []*types.JobRequest
	done chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{done: make(chan struct{}, 16)}
}

func (f *fakeRunner) Run(_ context.Context, job *types.JobRequest) error {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeRunner) waitForJob(t *testing.T) *types.JobRequest {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline was never invoked")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[len(f.jobs)-1]
}

func testServer(t *testing.T) (*Server, *fakeRunner, *jobstore.Store) {
	t.Helper()
	runner := newFakeRunner()
	store := jobstore.New()
	srv := New(Config{
		Port:         0,
		SharedSecret: "shh",
		Runner:       runner,
		Store:        store,
	})
	return srv, runner, store
}

func validBody() map[string]any {
	return map[string]any{
		"email":  "student@example.com",
		"task":   "calc-42",
		"round":  1,
		"nonce":  "ab12-cd34",
		"secret": "shh",
		"brief":  "simple calculator",
		"evaluation": map[string]string{
			"url": "https://example/cb",
		},
	}
}

func postSubmit(t *testing.T, srv *Server, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	switch b := body.(type) {
	case string:
		reader = strings.NewReader(b)
	default:
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(encoded))
	}

	req := httptest.NewRequest(http.MethodPost, "/api-endpoint", reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.handleSubmit(rec, req)
	return rec
}

func TestHandleSubmit_Accepted(t *testing.T) {
	srv, runner, store := testServer(t)

	rec := postSubmit(t, srv, validBody(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, "Request received and processing started", resp.Message)
	assert.Equal(t, "calc-42", resp.Task)
	assert.NotEmpty(t, resp.JobID)

	job := runner.waitForJob(t)
	assert.Equal(t, "calc-42", job.TaskID)
	assert.Equal(t, 1, job.Round)
	assert.Equal(t, "https://example/cb", job.CallbackURL)

	status, err := store.Get("calc-42")
	require.NoError(t, err)
	assert.Equal(t, resp.JobID, status.JobID)
}

func TestHandleSubmit_EmptyBody(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := postSubmit(t, srv, "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No JSON data provided")
}

func TestHandleSubmit_MissingFieldsAreListed(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := postSubmit(t, srv, map[string]any{"secret": "shh", "task": "calc-42"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required fields", resp.Error)
	assert.ElementsMatch(t, []string{"email", "round", "nonce", "brief"}, resp.Missing)
}

func TestHandleSubmit_RoundZeroIsPresent(t *testing.T) {
	srv, runner, _ := testServer(t)

	body := validBody()
	body["round"] = 0

	rec := postSubmit(t, srv, body, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, runner.waitForJob(t).Round)
}

func TestHandleSubmit_WrongSecret(t *testing.T) {
	srv, runner, _ := testServer(t)

	body := validBody()
	body["secret"] = "wrong"

	rec := postSubmit(t, srv, body, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, runner.jobs)
}

func TestHandleSubmit_InvalidTaskName(t *testing.T) {
	srv, _, _ := testServer(t)

	body := validBody()
	body["task"] = "Not A Valid Repo Name!"

	rec := postSubmit(t, srv, body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "repository name")
}

func TestHandleSubmit_BearerTokenInsteadOfSecret(t *testing.T) {
	srv, runner, _ := testServer(t)

	token, err := NewJWTService("shh", time.Hour).GenerateToken("student@example.com")
	require.NoError(t, err)

	body := validBody()
	delete(body, "secret")

	rec := postSubmit(t, srv, body, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)
	runner.waitForJob(t)
}

func TestHandleSubmit_InvalidBearerToken(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := postSubmit(t, srv, validBody(), map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleSubmit_ExpiredBearerToken(t *testing.T) {
	srv, _, _ := testServer(t)

	svc := &JWTService{secret: []byte("shh"), ttl: -time.Hour}
	token, err := svc.GenerateToken("student@example.com")
	require.NoError(t, err)

	rec := postSubmit(t, srv, validBody(), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleJobStatus(t *testing.T) {
	srv, _, store := testServer(t)
	store.Create("job-1", "calc-42")

	req := httptest.NewRequest(http.MethodGet, "/jobs/calc-42", nil)
	req.SetPathValue("task", "calc-42")
	rec := httptest.NewRecorder()
	srv.handleJobStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status types.JobStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, types.StateReceived, status.State)
}

func TestHandleJobStatus_Unknown(t *testing.T) {
	srv, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/jobs/nope", nil)
	req.SetPathValue("task", "nope")
	rec := httptest.NewRecorder()
	srv.handleJobStatus(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
}
