// Package github implements the RepoHost port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoHost = (*Client)(nil)

// Client implements the driven.RepoHost port using the go-github library.
// One go-github client is kept per API base URL so that github.com and
// GitHub Enterprise hosts share the same transport and token.
type Client struct {
	httpClient *http.Client
	token      string

	mu      sync.Mutex
	clients map[string]*gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	return NewClientWithHTTPClient(rateLimitClient, token)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, token string) *Client {
	return &Client{
		httpClient: httpClient,
		token:      token,
		clients:    make(map[string]*gh.Client),
	}
}

// clientFor returns the go-github client for apiURL, creating it on first use.
func (c *Client) clientFor(apiURL string) (*gh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[apiURL]; ok {
		return client, nil
	}

	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	client := gh.NewClient(c.httpClient)
	if c.token != "" {
		client = client.WithAuthToken(c.token)
	}
	client.BaseURL = u

	c.clients[apiURL] = client
	return client, nil
}

// FetchBranchInfo returns the default branch and all branch names of
// owner/repo. Branch listing handles pagination automatically.
func (c *Client) FetchBranchInfo(ctx context.Context, apiURL, owner, repo string) (*model.BranchInfo, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repo %q/%q: expected owner and name", owner, repo)
	}

	client, err := c.clientFor(apiURL)
	if err != nil {
		return nil, err
	}

	fullName := owner + "/" + repo

	repository, resp, err := client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s: %w", fullName, err)
	}
	logRateLimit(resp, fullName, 0, 1)

	opts := &gh.BranchListOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	info := &model.BranchInfo{
		DefaultBranch: repository.GetDefaultBranch(),
		Branches:      []string{},
	}

	for {
		branches, resp, err := client.Repositories.ListBranches(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing branches for %s (page %d): %w", fullName, opts.Page, err)
		}

		logRateLimit(resp, fullName+"/branches", opts.Page, len(branches))

		for _, b := range branches {
			info.Branches = append(info.Branches, b.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return info, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
