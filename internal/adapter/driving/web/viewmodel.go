package web

import (
	"net/url"
	"strings"
	"time"

	vm "github.com/ericfisherdev/branchpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/branchpanel/internal/application"
	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// toWebhookViewModel converts a domain Webhook to a WebhookViewModel.
func toWebhookViewModel(wh model.Webhook, loc *time.Location) vm.WebhookViewModel {
	escaped := url.PathEscape(wh.Name)

	return vm.WebhookViewModel{
		Name:         wh.Name,
		URL:          wh.URL,
		RepoLink:     safeLink(wh.URL),
		Namespace:    wh.Namespace,
		Pipeline:     wh.Pipeline,
		AddedAt:      model.FormatBuildTime(wh.AddedAt, loc),
		BranchesPath: "/webhooks/" + escaped + "/branches",
		DeletePath:   "/webhooks/" + escaped + "/delete",
	}
}

// toBranchTableViewModel converts a load state to the table fragment model.
// Rows link to the dashboard's PipelineRun list for the branch.
func toBranchTableViewModel(state application.BranchState, wh model.Webhook, apiRoot string, loc *time.Location) vm.BranchTableViewModel {
	table := vm.BranchTableViewModel{
		Rows:    make([]vm.BranchRowViewModel, 0, len(state.Rows)),
		Loading: state.Loading,
		Error:   PlainText(state.Err),
	}

	filters, err := model.ParseRepoURL(wh.URL)
	if err != nil {
		// Rows cannot exist for an unparseable URL; keep the error.
		return table
	}

	for _, row := range state.Rows {
		table.Rows = append(table.Rows, vm.BranchRowViewModel{
			ID:            row.Branch + "-branch",
			Branch:        row.Branch,
			BranchLink:    branchLink(apiRoot, wh.Namespace, filters, row.Branch),
			LastBuildTime: model.FormatBuildTime(row.LastTransitionTime, loc),
			Reason:        row.StatusReason,
			StatusClass:   "status-" + string(row.Status()),
			MessageHTML:   RenderMarkdown(row.Message),
			IsDefault:     row.IsDefault,
			Deleted:       row.Deleted,
		})
	}

	return table
}

// branchLink points at the dashboard's PipelineRun list filtered to the
// repository labels plus the branch, scoped to namespace when set.
func branchLink(apiRoot, namespace string, filters model.RepoFilters, branch string) string {
	selectors := append(filters.LabelSelectors(), model.LabelGitBranch+"="+branch)
	query := url.Values{"labelSelector": {strings.Join(selectors, ",")}}.Encode()

	var b strings.Builder
	b.WriteString(strings.TrimRight(apiRoot, "/"))
	b.WriteString("/#/")
	if namespace != "" {
		b.WriteString("namespaces/")
		b.WriteString(url.PathEscape(namespace))
		b.WriteString("/")
	}
	b.WriteString("pipelineruns?")
	b.WriteString(query)

	return b.String()
}

// safeLink returns raw if it is an absolute http(s) URL.
func safeLink(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}
