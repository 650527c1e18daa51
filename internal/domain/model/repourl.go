package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRepoURL is returned when a repository URL does not have the
// server/org/repo shape.
var ErrInvalidRepoURL = errors.New("invalid repository URL")

// ErrUnknownProvider is returned when no git provider matches a repository host.
var ErrUnknownProvider = errors.New("git provider not recognized")

// Label keys the webhook interceptor puts on every PipelineRun it creates.
const (
	LabelGitServer = "gitServer"
	LabelGitOrg    = "gitOrg"
	LabelGitRepo   = "gitRepo"
	LabelGitBranch = "gitBranch"
	LabelPipeline  = "tekton.dev/pipeline"
)

// RepoFilters identifies a repository by the labels its PipelineRuns carry.
type RepoFilters struct {
	Server string
	Org    string
	Repo   string
}

// ParseRepoURL reduces a repository URL to its server, org and repo tokens.
// The scheme, a trailing ".git" and trailing slashes are dropped and the result
// is lower-cased. Anything other than exactly three non-empty tokens is
// rejected with ErrInvalidRepoURL.
func ParseRepoURL(rawURL string) (RepoFilters, error) {
	s := SanitizeRepoURL(rawURL)
	s = strings.TrimRight(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return RepoFilters{}, fmt.Errorf("%w %q: expected server/org/repo", ErrInvalidRepoURL, rawURL)
	}
	for _, p := range parts {
		if p == "" {
			return RepoFilters{}, fmt.Errorf("%w %q: empty path segment", ErrInvalidRepoURL, rawURL)
		}
	}

	return RepoFilters{Server: parts[0], Org: parts[1], Repo: parts[2]}, nil
}

// SanitizeRepoURL lower-cases a repository URL and strips the http(s) scheme
// and a ".git" suffix, so that clone URLs and browse URLs compare equal.
func SanitizeRepoURL(rawURL string) string {
	s := strings.ToLower(strings.TrimSpace(rawURL))
	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return s
}

// LabelSelectors returns the label filters for the repository in the order
// gitOrg, gitServer, gitRepo.
func (f RepoFilters) LabelSelectors() []string {
	return []string{
		LabelGitOrg + "=" + f.Org,
		LabelGitServer + "=" + f.Server,
		LabelGitRepo + "=" + f.Repo,
	}
}

// GitProvider names the hosting service of a repository.
type GitProvider string

const (
	ProviderGitHub GitProvider = "github"
	ProviderGitLab GitProvider = "gitlab"
)

// DetectProvider returns the git provider serving rawURL and the base URL of its
// REST API. github.com maps to the public API, other hosts containing "github"
// are treated as GitHub Enterprise and hosts containing "gitlab" as GitLab.
func DetectProvider(rawURL string) (GitProvider, string, error) {
	if rawURL == "" {
		return "", "", fmt.Errorf("%w: no repository URL provided", ErrInvalidRepoURL)
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("%w %q: %w", ErrInvalidRepoURL, rawURL, err)
	}

	host := strings.ToLower(u.Host)
	switch {
	case host == "github.com":
		return ProviderGitHub, "https://api.github.com/", nil
	case strings.Contains(host, "github"):
		return ProviderGitHub, u.Scheme + "://" + u.Host + "/api/v3/", nil
	case strings.Contains(host, "gitlab"):
		return ProviderGitLab, u.Scheme + "://" + u.Host + "/api/v4", nil
	default:
		return "", "", fmt.Errorf("%w for project URL %s", ErrUnknownProvider, rawURL)
	}
}
