package application

import (
	"slices"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// datedRun pairs a run with its current condition so the condition is looked
// up once.
type datedRun struct {
	run  model.PipelineRun
	last model.Condition
}

// LatestByBranch reduces runs to one row per branch, taken from the run whose
// last condition transitioned most recently. Rows are ordered newest first.
//
// The input is always sorted here; callers need not pre-order it. Runs with no
// conditions cannot be dated and are skipped, as are runs without a branch
// label. Ties keep the order in which runs were given. runs is not modified.
func LatestByBranch(runs []model.PipelineRun) []model.BranchRow {
	candidates := make([]datedRun, 0, len(runs))
	for _, r := range runs {
		if r.Branch == "" {
			continue
		}
		last, ok := r.LastCondition()
		if !ok {
			continue
		}
		candidates = append(candidates, datedRun{run: r, last: last})
	}

	slices.SortStableFunc(candidates, func(a, b datedRun) int {
		return b.last.LastTransitionTime.Compare(a.last.LastTransitionTime)
	})

	rows := make([]model.BranchRow, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if seen[c.run.Branch] {
			continue
		}
		seen[c.run.Branch] = true

		rows = append(rows, model.BranchRow{
			Branch:             c.run.Branch,
			LastTransitionTime: c.last.LastTransitionTime,
			StatusReason:       c.last.Reason,
			Message:            c.last.Message,
			RunName:            c.run.Name,
			Namespace:          c.run.Namespace,
		})
	}

	return rows
}
