// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// WebhookViewModel holds presentation-ready data for one registered webhook.
type WebhookViewModel struct {
	Name         string
	URL          string
	RepoLink     string // URL if it is safe to link to, otherwise empty
	Namespace    string
	Pipeline     string
	AddedAt      string
	BranchesPath string
	DeletePath   string
}

// WebhookFormViewModel holds the add-webhook form values for re-rendering
// after a failed submission.
type WebhookFormViewModel struct {
	Name      string
	URL       string
	Namespace string
	Pipeline  string
}

// WebhookListViewModel holds the data for the webhook list page.
type WebhookListViewModel struct {
	Webhooks  []WebhookViewModel
	Form      WebhookFormViewModel
	Error     string
	CSRFToken string
}

// BranchPageViewModel holds the data for the branch page shell. The table is
// loaded separately from TablePath.
type BranchPageViewModel struct {
	Webhook   WebhookViewModel
	TablePath string
	Table     BranchTableViewModel
}

// BranchTableViewModel is what the branch table fragment renders: rows, a
// loading skeleton, or an error notification followed by the empty state.
type BranchTableViewModel struct {
	Rows    []BranchRowViewModel
	Loading bool
	Error   string
}

// ShowEmpty reports whether the "no PipelineRuns" message applies.
func (t BranchTableViewModel) ShowEmpty() bool {
	return !t.Loading && len(t.Rows) == 0
}

// BranchRowViewModel holds presentation-ready data for one table row.
type BranchRowViewModel struct {
	ID            string
	Branch        string
	BranchLink    string
	LastBuildTime string
	Reason        string
	StatusClass   string
	MessageHTML   string // sanitized HTML
	IsDefault     bool
	Deleted       bool
}
