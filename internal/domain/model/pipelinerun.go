package model

import "time"

// Condition is a timestamped status transition of a PipelineRun.
type Condition struct {
	Type               string // Usually "Succeeded".
	Status             string // "True", "False" or "Unknown".
	Reason             string // e.g. "Succeeded", "Failed", "Running".
	Message            string
	LastTransitionTime time.Time
}

// PipelineRun is one execution of a pipeline as reported by the dashboard.
// Conditions are in the order the API returned them; the last one is current.
type PipelineRun struct {
	Name       string
	Namespace  string
	Pipeline   string
	Branch     string
	Conditions []Condition
}

// LastCondition returns the current condition. ok is false when the run has no
// conditions yet.
func (r PipelineRun) LastCondition() (c Condition, ok bool) {
	if len(r.Conditions) == 0 {
		return Condition{}, false
	}
	return r.Conditions[len(r.Conditions)-1], true
}
