// Package dashboard implements the DashboardClient port against the Tekton
// dashboard REST proxy.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DashboardClient = (*Client)(nil)

// maxErrorBody caps how much of a failed response is read as the error text.
const maxErrorBody = 64 << 10

// Client implements driven.DashboardClient over HTTP.
type Client struct {
	http       *http.Client
	root       string
	apiVersion string
}

// NewClient creates a dashboard client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. promhttp duration instrumentation, registered on reg when reg is non-nil
//  3. http.DefaultTransport
//
// timeout bounds each request; zero disables it.
func NewClient(apiRoot, apiVersion string, timeout time.Duration, reg prometheus.Registerer) (*Client, error) {
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "branchpanel_dashboard_request_duration_seconds",
		Help:    "Latency of requests to the dashboard API by status code and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"code", "method"})

	if reg != nil {
		if err := reg.Register(requestDuration); err != nil {
			return nil, fmt.Errorf("register dashboard metrics: %w", err)
		}
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = promhttp.InstrumentRoundTripperDuration(requestDuration, http.DefaultTransport)

	return NewClientWithHTTPClient(&http.Client{
		Transport: cacheTransport,
		Timeout:   timeout,
	}, apiRoot, apiVersion)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, apiRoot, apiVersion string) (*Client, error) {
	u, err := url.Parse(apiRoot)
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dashboard URL %q must be absolute", apiRoot)
	}
	if apiVersion == "" {
		return nil, fmt.Errorf("tekton api version is required")
	}

	return &Client{
		http:       httpClient,
		root:       strings.TrimRight(apiRoot, "/"),
		apiVersion: apiVersion,
	}, nil
}

// APIRoot returns the dashboard base URL without a trailing slash.
func (c *Client) APIRoot() string {
	return c.root
}

// FetchPipelineRuns lists PipelineRuns through the dashboard's Kubernetes
// proxy. Non-2xx responses are returned as *driven.APIError carrying the
// response body as text.
func (c *Client) FetchPipelineRuns(ctx context.Context, q driven.PipelineRunQuery) ([]model.PipelineRun, error) {
	endpoint := c.pipelineRunsURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build pipelinerun request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing pipelineruns: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readAPIError(resp)
	}

	var list pipelineRunList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding pipelinerun list: %w", err)
	}

	runs := make([]model.PipelineRun, 0, len(list.Items))
	for _, item := range list.Items {
		runs = append(runs, mapPipelineRun(item))
	}

	slog.Debug("dashboard api call",
		"endpoint", endpoint,
		"count", len(runs),
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	return runs, nil
}

// pipelineRunsURL builds
// <root>/proxy/apis/tekton.dev/<version>/[namespaces/<ns>/]pipelineruns/?labelSelector=...
// The pipeline, when set, becomes a tekton.dev/pipeline selector after the
// query's own filters.
func (c *Client) pipelineRunsURL(q driven.PipelineRunQuery) string {
	var b strings.Builder
	b.WriteString(c.root)
	b.WriteString("/proxy/apis/tekton.dev/")
	b.WriteString(c.apiVersion)
	b.WriteString("/")
	if q.Namespace != "" {
		b.WriteString("namespaces/")
		b.WriteString(url.PathEscape(q.Namespace))
		b.WriteString("/")
	}
	b.WriteString("pipelineruns/")

	filters := slices.Clone(q.Filters)
	if q.Pipeline != "" {
		filters = append(filters, model.LabelPipeline+"="+q.Pipeline)
	}
	if len(filters) > 0 {
		b.WriteString("?")
		b.WriteString(url.Values{"labelSelector": {strings.Join(filters, ",")}}.Encode())
	}

	return b.String()
}

// readAPIError turns a failed response into *driven.APIError. The body is the
// message; an empty body falls back to the status text.
func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		slog.Debug("reading dashboard error body failed", "error", err)
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &driven.APIError{StatusCode: resp.StatusCode, Message: msg}
}
