package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/branchpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/branchpanel/internal/application"
	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockWebhookStore struct {
	webhooks  map[string]model.Webhook
	listErr   error
	removeErr error
}

func newMockWebhookStore(webhooks ...model.Webhook) *mockWebhookStore {
	m := &mockWebhookStore{webhooks: map[string]model.Webhook{}}
	for _, wh := range webhooks {
		m.webhooks[wh.Name] = wh
	}
	return m
}

func (m *mockWebhookStore) Add(_ context.Context, wh model.Webhook) error {
	if _, ok := m.webhooks[wh.Name]; ok {
		return driven.ErrWebhookAlreadyExists
	}
	m.webhooks[wh.Name] = wh
	return nil
}

func (m *mockWebhookStore) Remove(_ context.Context, name string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	if _, ok := m.webhooks[name]; !ok {
		return driven.ErrWebhookNotFound
	}
	delete(m.webhooks, name)
	return nil
}

func (m *mockWebhookStore) GetByName(_ context.Context, name string) (*model.Webhook, error) {
	wh, ok := m.webhooks[name]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (m *mockWebhookStore) ListAll(_ context.Context) ([]model.Webhook, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Webhook, 0, len(m.webhooks))
	for _, wh := range m.webhooks {
		out = append(out, wh)
	}
	return out, nil
}

type mockDashboard struct {
	runs  []model.PipelineRun
	err   error
	query driven.PipelineRunQuery
}

func (m *mockDashboard) FetchPipelineRuns(_ context.Context, q driven.PipelineRunQuery) ([]model.PipelineRun, error) {
	m.query = q
	return m.runs, m.err
}

func (m *mockDashboard) APIRoot() string { return "http://dashboard.test" }

// --- Helpers ---

var sampleWebhook = model.Webhook{
	Name:      "sample",
	URL:       "https://github.com/foo/bar",
	Namespace: "tekton-pipelines",
	Pipeline:  "build",
	AddedAt:   time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC),
}

func run(branch string, at time.Time, reason string) model.PipelineRun {
	return model.PipelineRun{
		Name:      branch + "-run",
		Namespace: "tekton-pipelines",
		Branch:    branch,
		Conditions: []model.Condition{
			{Type: "Succeeded", Reason: reason, LastTransitionTime: at},
		},
	}
}

func setupMux(t *testing.T, store *mockWebhookStore, dash *mockDashboard) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	webhooks := application.NewWebhookService(store, logger)
	branches := application.NewBranchService(dash, nil, logger)

	reg := prometheus.NewRegistry()
	metrics, err := httphandler.NewMetrics(reg)
	require.NoError(t, err)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(webhooks, branches, logger))
	httphandler.RegisterMetricsRoute(mux, reg)

	return httphandler.ApplyMiddleware(mux, logger, metrics)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealth(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestRequestID_Generated(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/health", "")

	assert.Len(t, rec.Header().Get(httphandler.RequestIDHeader), 36)
}

func TestRequestID_Propagated(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(httphandler.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(httphandler.RequestIDHeader))
}

func TestListWebhooks(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(sampleWebhook), &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []httphandler.WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "sample", resp[0].Name)
	assert.Equal(t, "https://github.com/foo/bar", resp[0].URL)
	assert.Equal(t, "tekton-pipelines", resp[0].Namespace)
	assert.Equal(t, "build", resp[0].Pipeline)
	assert.Equal(t, "2026-03-09T14:30:00Z", resp[0].AddedAt)
}

func TestListWebhooks_Empty(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListWebhooks_StoreError(t *testing.T) {
	store := newMockWebhookStore()
	store.listErr = errors.New("disk on fire")
	mux := setupMux(t, store, &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestAddWebhook(t *testing.T) {
	store := newMockWebhookStore()
	mux := setupMux(t, store, &mockDashboard{})

	rec := serve(mux, http.MethodPost, "/api/v1/webhooks",
		`{"name":"new","url":"https://github.com/foo/baz","namespace":"ci"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp httphandler.WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new", resp.Name)
	assert.Equal(t, "ci", resp.Namespace)
	assert.Contains(t, store.webhooks, "new")
}

func TestAddWebhook_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "bad name", body: `{"name":"a b","url":"https://github.com/foo/bar"}`, wantCode: http.StatusBadRequest},
		{name: "bad url", body: `{"name":"x","url":"https://github.com/foo"}`, wantCode: http.StatusBadRequest},
		{name: "duplicate", body: `{"name":"sample","url":"https://github.com/foo/bar"}`, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(t, newMockWebhookStore(sampleWebhook), &mockDashboard{})

			rec := serve(mux, http.MethodPost, "/api/v1/webhooks", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestRemoveWebhook(t *testing.T) {
	store := newMockWebhookStore(sampleWebhook)
	mux := setupMux(t, store, &mockDashboard{})

	rec := serve(mux, http.MethodDelete, "/api/v1/webhooks/sample", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, store.webhooks, "sample")
}

func TestRemoveWebhook_NotFound(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	rec := serve(mux, http.MethodDelete, "/api/v1/webhooks/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBranches(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dash := &mockDashboard{runs: []model.PipelineRun{
		run("master", base, "Failed"),
		run("branch1", base.Add(time.Hour), "Succeeded"),
		run("master", base.Add(2*time.Hour), "Succeeded"),
	}}
	mux := setupMux(t, newMockWebhookStore(sampleWebhook), dash)

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks/sample/branches", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.BranchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "sample", resp.Webhook)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "master", resp.Rows[0].Branch)
	assert.Equal(t, "Succeeded", resp.Rows[0].Reason)
	assert.Equal(t, "passing", resp.Rows[0].Status)
	assert.Equal(t, "2026-03-01T14:00:00Z", resp.Rows[0].LastTransitionTime)
	assert.Equal(t, "branch1", resp.Rows[1].Branch)

	assert.Equal(t, "tekton-pipelines", dash.query.Namespace)
	assert.Equal(t, "build", dash.query.Pipeline)
	assert.Equal(t, []string{"gitOrg=foo", "gitServer=github.com", "gitRepo=bar"}, dash.query.Filters)
}

func TestGetBranches_Empty(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(sampleWebhook), &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks/sample/branches", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"webhook":"sample","rows":[]}`, rec.Body.String())
}

func TestGetBranches_DashboardRejects(t *testing.T) {
	dash := &mockDashboard{err: &driven.APIError{StatusCode: http.StatusForbidden, Message: "pipelineruns is forbidden"}}
	mux := setupMux(t, newMockWebhookStore(sampleWebhook), dash)

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks/sample/branches", "")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp httphandler.BranchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pipelineruns is forbidden", resp.Error)
	assert.Empty(t, resp.Rows)
}

func TestGetBranches_UnknownWebhook(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	rec := serve(mux, http.MethodGet, "/api/v1/webhooks/missing/branches", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	mux := setupMux(t, newMockWebhookStore(), &mockDashboard{})

	serve(mux, http.MethodGet, "/api/v1/health", "")
	rec := serve(mux, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "branchpanel_http_request_duration_seconds")
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := httphandler.ApplyMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), logger, nil)

	rec := serve(h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
