package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// WebhookResponse is the JSON representation of a registered webhook.
type WebhookResponse struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Namespace string `json:"namespace"`
	Pipeline  string `json:"pipeline"`
	AddedAt   string `json:"added_at"`
}

// AddWebhookRequest is the JSON body for the add webhook endpoint.
type AddWebhookRequest struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Namespace string `json:"namespace"`
	Pipeline  string `json:"pipeline"`
}

// BranchRowResponse is the latest run of one branch.
type BranchRowResponse struct {
	Branch             string `json:"branch"`
	LastTransitionTime string `json:"last_transition_time"`
	Reason             string `json:"reason"`
	Status             string `json:"status"`
	Message            string `json:"message,omitempty"`
	PipelineRun        string `json:"pipeline_run"`
	Namespace          string `json:"namespace"`
	IsDefault          bool   `json:"is_default"`
	Deleted            bool   `json:"deleted"`
}

// BranchesResponse is the body of the branches endpoint. Error is set when the
// dashboard rejected the request; Rows is then empty.
type BranchesResponse struct {
	Webhook string              `json:"webhook"`
	Rows    []BranchRowResponse `json:"rows"`
	Error   string              `json:"error,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toWebhookResponse converts a domain Webhook to its JSON response representation.
func toWebhookResponse(wh model.Webhook) WebhookResponse {
	return WebhookResponse{
		Name:      wh.Name,
		URL:       wh.URL,
		Namespace: wh.Namespace,
		Pipeline:  wh.Pipeline,
		AddedAt:   wh.AddedAt.UTC().Format(time.RFC3339),
	}
}

func toBranchRowResponse(row model.BranchRow) BranchRowResponse {
	var ts string
	if !row.LastTransitionTime.IsZero() {
		ts = row.LastTransitionTime.UTC().Format(time.RFC3339)
	}

	return BranchRowResponse{
		Branch:             row.Branch,
		LastTransitionTime: ts,
		Reason:             row.StatusReason,
		Status:             string(row.Status()),
		Message:            row.Message,
		PipelineRun:        row.RunName,
		Namespace:          row.Namespace,
		IsDefault:          row.IsDefault,
		Deleted:            row.Deleted,
	}
}
