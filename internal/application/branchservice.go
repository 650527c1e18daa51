// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// genericLoadError is shown when a failure carries no user-facing text.
const genericLoadError = "unable to load pipeline runs"

// BranchState is everything a branch view renders: the rows, whether the
// fetch is still in flight, and the error text of a failed fetch.
type BranchState struct {
	Rows    []model.BranchRow
	Loading bool
	Err     string
}

// BranchService loads the latest PipelineRun per branch for a webhook.
type BranchService struct {
	dashboard driven.DashboardClient
	host      driven.RepoHost
	logger    *slog.Logger
}

// NewBranchService creates a BranchService. host may be nil, in which case
// rows are never marked as default or deleted.
func NewBranchService(dashboard driven.DashboardClient, host driven.RepoHost, logger *slog.Logger) *BranchService {
	return &BranchService{
		dashboard: dashboard,
		host:      host,
		logger:    logger,
	}
}

// APIRoot returns the dashboard base URL.
func (s *BranchService) APIRoot() string {
	return s.dashboard.APIRoot()
}

// LatestBranches fetches the webhook's PipelineRuns in one request and reduces
// them with LatestByBranch.
func (s *BranchService) LatestBranches(ctx context.Context, webhook model.Webhook) ([]model.BranchRow, error) {
	filters, err := model.ParseRepoURL(webhook.URL)
	if err != nil {
		return nil, err
	}

	runs, err := s.dashboard.FetchPipelineRuns(ctx, driven.PipelineRunQuery{
		Namespace: webhook.Namespace,
		Pipeline:  webhook.Pipeline,
		Filters:   filters.LabelSelectors(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching pipeline runs for webhook %s: %w", webhook.Name, err)
	}

	rows := LatestByBranch(runs)

	s.logger.Debug("branch rows computed",
		"webhook", webhook.Name,
		"runs", len(runs),
		"branches", len(rows),
	)

	s.markUpstream(ctx, webhook.URL, filters, rows)

	return rows, nil
}

// markUpstream flags the default branch and branches that no longer exist on
// the git host. Only GitHub repositories are looked up; failures are logged
// and leave the rows unmarked.
func (s *BranchService) markUpstream(ctx context.Context, repoURL string, filters model.RepoFilters, rows []model.BranchRow) {
	if s.host == nil || len(rows) == 0 {
		return
	}

	provider, apiURL, err := model.DetectProvider(repoURL)
	if err != nil || provider != model.ProviderGitHub {
		return
	}

	info, err := s.host.FetchBranchInfo(ctx, apiURL, filters.Org, filters.Repo)
	if err != nil {
		s.logger.Warn("branch info unavailable", "repo", repoURL, "error", err)
		return
	}

	// Run labels hold only the last segment of the branch name, so a label
	// shared by several upstream branches cannot be resolved.
	for i := range rows {
		name, count := info.Match(rows[i].Branch)
		switch count {
		case 0:
			rows[i].Deleted = true
		case 1:
			rows[i].IsDefault = name == info.DefaultBranch
		}
	}
}

// Start runs LatestBranches in the background and returns a handle to its
// result. The fetch is aborted when ctx is canceled or the handle's Cancel is
// called; in either case the handle's state is not updated afterwards.
func (s *BranchService) Start(ctx context.Context, webhook model.Webhook) *LoadHandle {
	ctx, cancel := context.WithCancel(ctx)

	h := &LoadHandle{
		state:  BranchState{Rows: []model.BranchRow{}, Loading: true},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()

		rows, err := s.LatestBranches(ctx, webhook)
		if err != nil && ctx.Err() == nil {
			s.logger.Error("branch load failed", "webhook", webhook.Name, "error", err)
		}
		h.complete(ctx, rows, err)
	}()

	return h
}

// ErrorMessage extracts the text to show for a failed load. Dashboard
// rejections yield the response body; invalid URLs describe the URL.
func ErrorMessage(err error) string {
	var apiErr *driven.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, model.ErrInvalidRepoURL):
		return err.Error()
	default:
		return genericLoadError
	}
}

// LoadHandle is the pending result of BranchService.Start.
type LoadHandle struct {
	mu       sync.Mutex
	state    BranchState
	canceled bool

	cancel context.CancelFunc
	done   chan struct{}
}

// complete stores the outcome unless the consumer already lost interest.
func (h *LoadHandle) complete(ctx context.Context, rows []model.BranchRow, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.canceled || ctx.Err() != nil {
		return
	}

	if err != nil {
		h.state = BranchState{Rows: []model.BranchRow{}, Err: ErrorMessage(err)}
		return
	}

	h.state = BranchState{Rows: rows}
}

// State returns a snapshot of the current state.
func (h *LoadHandle) State() BranchState {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.state
	st.Rows = slices.Clone(h.state.Rows)
	return st
}

// Done is closed once the background fetch has returned.
func (h *LoadHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the fetch finishes or ctx is done and returns the state at
// that point.
func (h *LoadHandle) Wait(ctx context.Context) (BranchState, error) {
	select {
	case <-h.done:
		return h.State(), nil
	case <-ctx.Done():
		return h.State(), ctx.Err()
	}
}

// Cancel aborts the fetch. The state is left as it was.
func (h *LoadHandle) Cancel() {
	h.mu.Lock()
	h.canceled = true
	h.mu.Unlock()

	h.cancel()
}
