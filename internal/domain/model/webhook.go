package model

import "time"

// Webhook links a repository event source to a pipeline. It is the input the
// branch view is opened with.
type Webhook struct {
	ID        int64
	Name      string // Unique registry key.
	URL       string // Repository URL, e.g. https://github.com/org/repo.
	Namespace string // Optional; empty means all namespaces.
	Pipeline  string // Optional; empty means any pipeline.
	AddedAt   time.Time
}
