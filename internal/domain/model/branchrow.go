package model

import (
	"strings"
	"time"
)

// BuildTimeLayout is how a row's last transition time is displayed.
const BuildTimeLayout = "2006-01-02 - 15:04:05"

// FormatBuildTime renders t in loc using BuildTimeLayout. Unknown times render
// as "-"; a nil loc means local time.
func FormatBuildTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(BuildTimeLayout)
}

// BranchRow is the latest run outcome for one branch.
type BranchRow struct {
	Branch             string
	LastTransitionTime time.Time
	StatusReason       string
	Message            string
	RunName            string
	Namespace          string

	// Set only when upstream branch information was available.
	IsDefault bool
	Deleted   bool
}

// Status classifies the row's reason.
func (r BranchRow) Status() RunStatus {
	return ClassifyReason(r.StatusReason)
}

// BranchInfo is what the git host knows about a repository's branches.
type BranchInfo struct {
	DefaultBranch string
	Branches      []string
}

// BranchLabel returns the value a trigger stores in the gitBranch label for
// ref: the text after its last '/'. "refs/heads/feature/login" becomes "login".
func BranchLabel(ref string) string {
	return ref[strings.LastIndex(ref, "/")+1:]
}

// Match finds the upstream branch whose BranchLabel equals label. It returns
// the full branch name and the number of upstream branches sharing that label;
// the name is only meaningful when count is 1.
func (b BranchInfo) Match(label string) (name string, count int) {
	for _, br := range b.Branches {
		if BranchLabel(br) == label {
			name = br
			count++
		}
	}
	return name, count
}
