// Package config loads application configuration from environment variables
// and the optional webhook seed file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DashboardURL  string
	TektonVersion string
	ListenAddr    string
	DBPath        string
	WebhooksFile  string
	GitHubToken   string
	FetchTimeout  time.Duration
	Location      *time.Location
}

// HasGitHubToken reports whether branch information may be looked up on
// GitHub. Public repositories also work without a token, but the
// unauthenticated rate limit is too low to be useful for a dashboard.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. Defaults: BRANCHPANEL_DASHBOARD_URL
// (http://localhost:9097), BRANCHPANEL_TEKTON_API_VERSION (v1beta1),
// BRANCHPANEL_LISTEN_ADDR (127.0.0.1:8080), BRANCHPANEL_DB_PATH (branchpanel.db),
// BRANCHPANEL_FETCH_TIMEOUT (30s), BRANCHPANEL_TIMEZONE (Local).
// BRANCHPANEL_WEBHOOKS_FILE and BRANCHPANEL_GITHUB_TOKEN have no default.
func Load() (*Config, error) {
	dashboardURL := envOr("BRANCHPANEL_DASHBOARD_URL", "http://localhost:9097")
	u, err := url.Parse(dashboardURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BRANCHPANEL_DASHBOARD_URL must be an absolute URL, got %q", dashboardURL)
	}

	tektonVersion := envOr("BRANCHPANEL_TEKTON_API_VERSION", "v1beta1")
	if strings.TrimSpace(tektonVersion) == "" {
		return nil, fmt.Errorf("BRANCHPANEL_TEKTON_API_VERSION must not be empty")
	}

	fetchTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("BRANCHPANEL_FETCH_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("BRANCHPANEL_FETCH_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("BRANCHPANEL_FETCH_TIMEOUT must be positive, got %s", parsed)
		}
		fetchTimeout = parsed
	}

	location := time.Local
	if v, ok := os.LookupEnv("BRANCHPANEL_TIMEZONE"); ok && v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("BRANCHPANEL_TIMEZONE has invalid location %q: %w", v, err)
		}
		location = loc
	}

	return &Config{
		DashboardURL:  strings.TrimRight(dashboardURL, "/"),
		TektonVersion: tektonVersion,
		ListenAddr:    envOr("BRANCHPANEL_LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:        envOr("BRANCHPANEL_DB_PATH", "branchpanel.db"),
		WebhooksFile:  os.Getenv("BRANCHPANEL_WEBHOOKS_FILE"),
		GitHubToken:   os.Getenv("BRANCHPANEL_GITHUB_TOKEN"),
		FetchTimeout:  fetchTimeout,
		Location:      location,
	}, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
