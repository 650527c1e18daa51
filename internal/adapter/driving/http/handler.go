package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/branchpanel/internal/application"
	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	webhooks *application.WebhookService
	branches *application.BranchService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	webhooks *application.WebhookService,
	branches *application.BranchService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		webhooks: webhooks,
		branches: branches,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers the REST API routes under /api/v1 on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/webhooks", h.ListWebhooks)
	mux.HandleFunc("POST /api/v1/webhooks", h.AddWebhook)
	mux.HandleFunc("DELETE /api/v1/webhooks/{name}", h.RemoveWebhook)
	mux.HandleFunc("GET /api/v1/webhooks/{name}/branches", h.GetBranches)
}

// RegisterMetricsRoute exposes the collectors of gatherer at /metrics.
func RegisterMetricsRoute(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// ListWebhooks returns all registered webhooks.
func (h *Handler) ListWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.webhooks.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list webhooks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]WebhookResponse, 0, len(webhooks))
	for _, wh := range webhooks {
		resp = append(resp, toWebhookResponse(wh))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddWebhook registers a webhook.
func (h *Handler) AddWebhook(w http.ResponseWriter, r *http.Request) {
	var req AddWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wh, err := h.webhooks.Register(r.Context(), model.Webhook{
		Name:      req.Name,
		URL:       req.URL,
		Namespace: req.Namespace,
		Pipeline:  req.Pipeline,
	})
	switch {
	case errors.Is(err, application.ErrInvalidWebhook):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, driven.ErrWebhookAlreadyExists):
		writeError(w, http.StatusConflict, "webhook already exists")
		return
	case err != nil:
		h.logger.Error("failed to add webhook", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toWebhookResponse(wh))
}

// RemoveWebhook removes a webhook from the registry.
func (h *Handler) RemoveWebhook(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.webhooks.Remove(r.Context(), name); err != nil {
		if errors.Is(err, driven.ErrWebhookNotFound) {
			writeError(w, http.StatusNotFound, "webhook not found")
			return
		}
		h.logger.Error("failed to remove webhook", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBranches loads the latest PipelineRun per branch of the named webhook.
// A dashboard rejection is reported with 502 and the dashboard's message.
func (h *Handler) GetBranches(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	wh, err := h.webhooks.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, driven.ErrWebhookNotFound) {
			writeError(w, http.StatusNotFound, "webhook not found")
			return
		}
		h.logger.Error("failed to get webhook", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	load := h.branches.Start(r.Context(), wh)
	defer load.Cancel()

	state, err := load.Wait(r.Context())
	if err != nil {
		// The client went away; nobody is left to answer.
		h.logger.Debug("branch request abandoned", "webhook", name, "error", err)
		return
	}

	resp := BranchesResponse{
		Webhook: wh.Name,
		Rows:    make([]BranchRowResponse, 0, len(state.Rows)),
		Error:   state.Err,
	}
	for _, row := range state.Rows {
		resp.Rows = append(resp.Rows, toBranchRowResponse(row))
	}

	status := http.StatusOK
	if state.Err != "" {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
