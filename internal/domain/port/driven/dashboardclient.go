package driven

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// PipelineRunQuery scopes a PipelineRun listing.
type PipelineRunQuery struct {
	Namespace string   // Empty lists across all namespaces.
	Pipeline  string   // Empty matches any pipeline.
	Filters   []string // Label selectors, e.g. "gitOrg=org".
}

// DashboardClient defines the driven port for the CI dashboard API.
type DashboardClient interface {
	// FetchPipelineRuns lists PipelineRuns matching the query. A rejected
	// request is reported as *APIError.
	FetchPipelineRuns(ctx context.Context, q PipelineRunQuery) ([]model.PipelineRun, error)
	// APIRoot returns the dashboard base URL used to build links.
	APIRoot() string
}

// APIError is a non-success response from the dashboard. Message holds the
// response body read as text and is meant to be shown to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashboard api %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}
