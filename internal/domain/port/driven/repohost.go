package driven

import (
	"context"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// RepoHost defines the driven port for the git hosting service API.
type RepoHost interface {
	// FetchBranchInfo returns the default branch and the branch names of
	// owner/repo on the host whose REST API lives at apiURL.
	FetchBranchInfo(ctx context.Context, apiURL, owner, repo string) (*model.BranchInfo, error)
}
