package model

import "strings"

// RunStatus is the coarse outcome of a PipelineRun derived from its reason.
type RunStatus string

const (
	RunStatusPassing RunStatus = "passing"
	RunStatusFailing RunStatus = "failing"
	RunStatusRunning RunStatus = "running"
	RunStatusUnknown RunStatus = "unknown"
)

// ClassifyReason maps a condition reason to a RunStatus. Matching is
// case-insensitive; unrecognized reasons are RunStatusUnknown.
func ClassifyReason(reason string) RunStatus {
	switch strings.ToLower(reason) {
	case "succeeded", "completed", "success":
		return RunStatusPassing
	case "failed", "failure", "pipelineruntimeout", "pipelineruncancelled", "cancelled", //nolint:misspell // Tekton uses British "cancelled"
		"couldntgetpipeline", "invalidpipelineresourcebindings", "pipelinevalidationfailed",
		"couldntgettask", "error":
		return RunStatusFailing
	case "running", "started", "pending":
		return RunStatusRunning
	default:
		return RunStatusUnknown
	}
}
