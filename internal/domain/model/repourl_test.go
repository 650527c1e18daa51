package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    RepoFilters
		wantErr bool
	}{
		{
			name: "https github url",
			url:  "https://github.com/someUser/someRepo",
			want: RepoFilters{Server: "github.com", Org: "someuser", Repo: "somerepo"},
		},
		{
			name: "http enterprise url",
			url:  "http://github.example.com/Org/Repo",
			want: RepoFilters{Server: "github.example.com", Org: "org", Repo: "repo"},
		},
		{
			name: "clone url with .git suffix",
			url:  "https://gitlab.com/group/project.git",
			want: RepoFilters{Server: "gitlab.com", Org: "group", Repo: "project"},
		},
		{
			name: "trailing slash",
			url:  "https://github.com/org/repo/",
			want: RepoFilters{Server: "github.com", Org: "org", Repo: "repo"},
		},
		{
			name:    "missing repo",
			url:     "https://github.com/org",
			wantErr: true,
		},
		{
			name:    "too many segments",
			url:     "https://github.com/org/repo/tree/main",
			wantErr: true,
		},
		{
			name:    "empty segment",
			url:     "https://github.com//repo",
			wantErr: true,
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRepoURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepoFilters_LabelSelectors(t *testing.T) {
	f := RepoFilters{Server: "github.com", Org: "someuser", Repo: "somerepo"}

	assert.Equal(t, []string{
		"gitOrg=someuser",
		"gitServer=github.com",
		"gitRepo=somerepo",
	}, f.LabelSelectors())
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantProvider GitProvider
		wantAPI      string
		wantErr      error
	}{
		{
			name:         "public github",
			url:          "https://github.com/org/repo",
			wantProvider: ProviderGitHub,
			wantAPI:      "https://api.github.com/",
		},
		{
			name:         "public github mixed case host",
			url:          "https://GitHub.com/org/repo",
			wantProvider: ProviderGitHub,
			wantAPI:      "https://api.github.com/",
		},
		{
			name:         "github enterprise",
			url:          "https://github.mycompany.com/org/repo",
			wantProvider: ProviderGitHub,
			wantAPI:      "https://github.mycompany.com/api/v3/",
		},
		{
			name:         "gitlab",
			url:          "http://gitlab.example.com/group/project",
			wantProvider: ProviderGitLab,
			wantAPI:      "http://gitlab.example.com/api/v4",
		},
		{
			name:    "unknown host",
			url:     "https://bitbucket.org/org/repo",
			wantErr: ErrUnknownProvider,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: ErrInvalidRepoURL,
		},
		{
			name:    "not a url",
			url:     "github.com/org/repo",
			wantErr: ErrInvalidRepoURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, api, err := DetectProvider(tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, provider)
			assert.Equal(t, tt.wantAPI, api)
		})
	}
}

func TestClassifyReason(t *testing.T) {
	assert.Equal(t, RunStatusPassing, ClassifyReason("Succeeded"))
	assert.Equal(t, RunStatusPassing, ClassifyReason("Completed"))
	assert.Equal(t, RunStatusFailing, ClassifyReason("Failed"))
	assert.Equal(t, RunStatusFailing, ClassifyReason("PipelineRunTimeout"))
	assert.Equal(t, RunStatusRunning, ClassifyReason("Running"))
	assert.Equal(t, RunStatusUnknown, ClassifyReason(""))
	assert.Equal(t, RunStatusUnknown, ClassifyReason("SomethingElse"))
}
