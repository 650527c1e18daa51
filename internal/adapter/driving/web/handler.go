// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/branchpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/branchpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/branchpanel/internal/application"
	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

const appTitle = "branchpanel"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	webhooks *application.WebhookService
	branches *application.BranchService
	location *time.Location
	logger   *slog.Logger
}

// NewHandler creates a Handler. Times are displayed in location.
func NewHandler(
	webhooks *application.WebhookService,
	branches *application.BranchService,
	location *time.Location,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		webhooks: webhooks,
		branches: branches,
		location: location,
		logger:   logger,
	}
}

// Webhooks renders the webhook list page.
func (h *Handler) Webhooks(w http.ResponseWriter, r *http.Request) {
	h.renderWebhookList(w, r, http.StatusOK, vm.WebhookFormViewModel{}, "")
}

// AddWebhook handles the add form. Validation failures re-render the list
// with the submitted values and the reason.
func (h *Handler) AddWebhook(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	form := vm.WebhookFormViewModel{
		Name:      r.FormValue("name"),
		URL:       r.FormValue("url"),
		Namespace: r.FormValue("namespace"),
		Pipeline:  r.FormValue("pipeline"),
	}

	_, err := h.webhooks.Register(r.Context(), model.Webhook{
		Name:      form.Name,
		URL:       form.URL,
		Namespace: form.Namespace,
		Pipeline:  form.Pipeline,
	})
	switch {
	case errors.Is(err, application.ErrInvalidWebhook):
		h.renderWebhookList(w, r, http.StatusBadRequest, form, err.Error())
		return
	case errors.Is(err, driven.ErrWebhookAlreadyExists):
		h.renderWebhookList(w, r, http.StatusConflict, form, "webhook "+form.Name+" already exists")
		return
	case err != nil:
		h.logger.Error("failed to add webhook", "name", form.Name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteWebhook handles the per-row delete form.
func (h *Handler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	name := r.PathValue("name")
	if err := h.webhooks.Remove(r.Context(), name); err != nil {
		if errors.Is(err, driven.ErrWebhookNotFound) {
			h.renderWebhookList(w, r, http.StatusNotFound, vm.WebhookFormViewModel{}, "webhook "+name+" not found")
			return
		}
		h.logger.Error("failed to remove webhook", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// BranchPage renders the branch page shell with a loading skeleton. The
// table itself is fetched from BranchTable by branches.js.
func (h *Handler) BranchPage(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookupWebhook(w, r)
	if !ok {
		return
	}

	webhook := toWebhookViewModel(wh, h.location)
	page := templates.BranchPage(vm.BranchPageViewModel{
		Webhook:   webhook,
		TablePath: webhook.BranchesPath + "/table",
		Table:     vm.BranchTableViewModel{Loading: true},
	})

	h.render(w, r, http.StatusOK, templates.Layout(wh.Name+" - "+appTitle, page))
}

// BranchTable loads the webhook's PipelineRuns and renders the table
// fragment. The load is abandoned when the client disconnects.
func (h *Handler) BranchTable(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookupWebhook(w, r)
	if !ok {
		return
	}

	load := h.branches.Start(r.Context(), wh)
	defer load.Cancel()

	state, err := load.Wait(r.Context())
	if err != nil {
		h.logger.Debug("branch table request abandoned", "webhook", wh.Name, "error", err)
		return
	}

	table := toBranchTableViewModel(state, wh, h.branches.APIRoot(), h.location)
	h.render(w, r, http.StatusOK, templates.BranchTable(table))
}

func (h *Handler) lookupWebhook(w http.ResponseWriter, r *http.Request) (model.Webhook, bool) {
	name := r.PathValue("name")

	wh, err := h.webhooks.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, driven.ErrWebhookNotFound) {
			http.Error(w, "webhook not found", http.StatusNotFound)
			return model.Webhook{}, false
		}
		h.logger.Error("failed to get webhook", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return model.Webhook{}, false
	}

	return wh, true
}

func (h *Handler) renderWebhookList(w http.ResponseWriter, r *http.Request, status int, form vm.WebhookFormViewModel, message string) {
	token := csrfToken(w, r)

	webhooks, err := h.webhooks.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list webhooks", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := vm.WebhookListViewModel{
		Webhooks:  make([]vm.WebhookViewModel, 0, len(webhooks)),
		Form:      form,
		Error:     message,
		CSRFToken: token,
	}
	for _, wh := range webhooks {
		data.Webhooks = append(data.Webhooks, toWebhookViewModel(wh, h.location))
	}

	h.render(w, r, status, templates.Layout(appTitle, templates.WebhookList(data)))
}

// render writes component with status using templ's handler so a failed
// render never leaves a partial page behind.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	templ.Handler(component,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}
