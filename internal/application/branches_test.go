package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

var (
	t1 = time.Date(2019, 9, 23, 18, 27, 57, 0, time.UTC)
	t2 = t1.Add(10 * time.Minute)
	t3 = t1.Add(20 * time.Minute)
)

// makeRun builds a run in the default namespace; conds are oldest first.
func makeRun(name, branch string, conds ...model.Condition) model.PipelineRun {
	return model.PipelineRun{
		Name:       name,
		Namespace:  "default",
		Branch:     branch,
		Conditions: conds,
	}
}

func cond(at time.Time, reason string) model.Condition {
	return model.Condition{Type: "Succeeded", Reason: reason, LastTransitionTime: at}
}

func TestLatestByBranch_TwoBranches(t *testing.T) {
	runs := []model.PipelineRun{
		makeRun("run-1", "master", cond(t1, "Failed")),
		makeRun("run-2", "branch1", cond(t2, "Succeeded")),
	}

	rows := LatestByBranch(runs)

	require.Len(t, rows, 2)
	assert.Equal(t, "branch1", rows[0].Branch, "most recent branch first")
	assert.Equal(t, "Succeeded", rows[0].StatusReason)
	assert.Equal(t, t2, rows[0].LastTransitionTime)
	assert.Equal(t, "run-2", rows[0].RunName)

	assert.Equal(t, "master", rows[1].Branch)
	assert.Equal(t, "Failed", rows[1].StatusReason)
	assert.Equal(t, t1, rows[1].LastTransitionTime)
}

func TestLatestByBranch_DuplicateBranchKeepsLatest(t *testing.T) {
	tests := []struct {
		name string
		runs []model.PipelineRun
	}{
		{
			name: "older first",
			runs: []model.PipelineRun{
				makeRun("old", "master", cond(t1, "Failed")),
				makeRun("new", "master", cond(t2, "Succeeded")),
			},
		},
		{
			name: "newer first",
			runs: []model.PipelineRun{
				makeRun("new", "master", cond(t2, "Succeeded")),
				makeRun("old", "master", cond(t1, "Failed")),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := LatestByBranch(tt.runs)

			require.Len(t, rows, 1)
			assert.Equal(t, "master", rows[0].Branch)
			assert.Equal(t, "new", rows[0].RunName)
			assert.Equal(t, "Succeeded", rows[0].StatusReason)
			assert.Equal(t, t2, rows[0].LastTransitionTime)
		})
	}
}

func TestLatestByBranch_UsesLastCondition(t *testing.T) {
	runs := []model.PipelineRun{
		makeRun("run-1", "master", cond(t1, "Running"), cond(t3, "Succeeded")),
		makeRun("run-2", "master", cond(t2, "Failed")),
	}

	rows := LatestByBranch(runs)

	require.Len(t, rows, 1)
	assert.Equal(t, "run-1", rows[0].RunName)
	assert.Equal(t, "Succeeded", rows[0].StatusReason)
	assert.Equal(t, t3, rows[0].LastTransitionTime)
}

func TestLatestByBranch_Empty(t *testing.T) {
	rows := LatestByBranch(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows = LatestByBranch([]model.PipelineRun{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestLatestByBranch_SkipsRunsWithoutConditions(t *testing.T) {
	runs := []model.PipelineRun{
		makeRun("pending", "feature"),
		makeRun("run-1", "master", cond(t1, "Succeeded")),
		makeRun("no-branch", "", cond(t2, "Succeeded")),
	}

	rows := LatestByBranch(runs)

	require.Len(t, rows, 1)
	assert.Equal(t, "master", rows[0].Branch)
}

func TestLatestByBranch_TiesKeepInputOrder(t *testing.T) {
	runs := []model.PipelineRun{
		makeRun("first", "master", cond(t1, "Failed")),
		makeRun("second", "master", cond(t1, "Succeeded")),
	}

	rows := LatestByBranch(runs)

	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].RunName)
}

func TestLatestByBranch_DoesNotReorderInput(t *testing.T) {
	runs := []model.PipelineRun{
		makeRun("a", "master", cond(t1, "Failed")),
		makeRun("b", "dev", cond(t3, "Succeeded")),
		makeRun("c", "master", cond(t2, "Succeeded")),
	}

	_ = LatestByBranch(runs)

	assert.Equal(t, "a", runs[0].Name)
	assert.Equal(t, "b", runs[1].Name)
	assert.Equal(t, "c", runs[2].Name)
}

// TestLatestByBranch_Properties checks, over a generated collection, that
// branches are distinct and each row carries the newest condition of its
// branch.
func TestLatestByBranch_Properties(t *testing.T) {
	branches := []string{"master", "dev", "feature-a", "feature-b"}
	reasons := []string{"Succeeded", "Failed", "Running"}

	var runs []model.PipelineRun
	for i := 0; i < 40; i++ {
		// Spread times so that order in the slice does not match recency.
		at := t1.Add(time.Duration((i*7)%40) * time.Minute)
		runs = append(runs, makeRun(
			fmt.Sprintf("run-%d", i),
			branches[i%len(branches)],
			cond(at, reasons[i%len(reasons)]),
		))
	}

	rows := LatestByBranch(runs)
	require.Len(t, rows, len(branches))

	seen := make(map[string]bool)
	for i, row := range rows {
		assert.False(t, seen[row.Branch], "branch %s emitted twice", row.Branch)
		seen[row.Branch] = true

		var newest model.Condition
		for _, r := range runs {
			if r.Branch != row.Branch {
				continue
			}
			last, _ := r.LastCondition()
			if last.LastTransitionTime.After(newest.LastTransitionTime) {
				newest = last
			}
		}
		assert.Equal(t, newest.LastTransitionTime, row.LastTransitionTime, "branch %s", row.Branch)
		assert.Equal(t, newest.Reason, row.StatusReason, "branch %s", row.Branch)

		if i > 0 {
			assert.False(t, row.LastTransitionTime.After(rows[i-1].LastTransitionTime), "rows must be newest first")
		}
	}
}
