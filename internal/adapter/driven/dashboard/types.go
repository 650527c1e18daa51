package dashboard

import (
	"log/slog"
	"time"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// pipelineRunList is the subset of a Tekton PipelineRunList the view needs.
type pipelineRunList struct {
	Items []pipelineRunJSON `json:"items"`
}

type pipelineRunJSON struct {
	Metadata struct {
		Name      string            `json:"name"`
		Namespace string            `json:"namespace"`
		Labels    map[string]string `json:"labels"`
	} `json:"metadata"`
	Status struct {
		Conditions []conditionJSON `json:"conditions"`
	} `json:"status"`
}

type conditionJSON struct {
	Type               string `json:"type"`
	Status             string `json:"status"`
	Reason             string `json:"reason"`
	Message            string `json:"message"`
	LastTransitionTime string `json:"lastTransitionTime"`
}

// mapPipelineRun converts the wire form into a domain PipelineRun. Condition
// order is preserved. Unparseable timestamps become the zero time, which sorts
// as oldest.
func mapPipelineRun(p pipelineRunJSON) model.PipelineRun {
	conds := make([]model.Condition, 0, len(p.Status.Conditions))
	for _, c := range p.Status.Conditions {
		conds = append(conds, model.Condition{
			Type:               c.Type,
			Status:             c.Status,
			Reason:             c.Reason,
			Message:            c.Message,
			LastTransitionTime: parseTransitionTime(p.Metadata.Name, c.LastTransitionTime),
		})
	}

	return model.PipelineRun{
		Name:       p.Metadata.Name,
		Namespace:  p.Metadata.Namespace,
		Pipeline:   p.Metadata.Labels[model.LabelPipeline],
		Branch:     p.Metadata.Labels[model.LabelGitBranch],
		Conditions: conds,
	}
}

func parseTransitionTime(run, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.Debug("unparseable lastTransitionTime", "pipelinerun", run, "value", s, "error", err)
		return time.Time{}
	}
	return t
}
