package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/branchpanel/internal/adapter/driving/web/viewmodel"
)

// NoRunsMessage is shown when no PipelineRun matched the webhook.
const NoRunsMessage = "Unable to identify any PipelineRuns initiated by this webhook."

var tableHeaders = []string{"Branch", "Last Build Time", "Status"}

// BranchPage renders the webhook details and the table placeholder that
// branches.js replaces with the fragment served at TablePath.
func BranchPage(data vm.BranchPageViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<section class="branches"><h1>Latest PipelineRuns By Branch:</h1><div class="webhook-details">`)
		detail(hw, "Webhook Name:", data.Webhook.Name)
		hw.raw(`<p><strong>Repository:</strong> `)
		repoLink(hw, data.Webhook)
		hw.raw(`</p>`)
		detail(hw, "Pipeline:", data.Webhook.Pipeline)
		detail(hw, "Namespace:", data.Webhook.Namespace)
		hw.raw(`</div><div id="branch-table" data-src="`)
		hw.url(data.TablePath)
		hw.raw(`">`)
		if hw.err != nil {
			return hw.err
		}

		if err := BranchTable(data.Table).Render(ctx, w); err != nil {
			return err
		}

		hw.raw(`</div><noscript><a href="`)
		hw.url(data.TablePath)
		hw.raw(`">Show table</a></noscript></section>`)
		return hw.err
	})
}

func detail(hw *htmlWriter, label, value string) {
	hw.raw(`<p><strong>`)
	hw.text(label)
	hw.raw(`</strong> `)
	hw.text(value)
	hw.raw(`</p>`)
}

// BranchTable renders the table fragment: an error notification if the load
// failed, the loading skeleton or the rows, and the empty state.
func BranchTable(data vm.BranchTableViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		if data.Error != "" {
			notification(hw, "Error:", data.Error)
		}

		if data.Loading {
			skeleton(hw)
			return hw.err
		}

		hw.raw(`<table class="data-table"><thead><tr>`)
		for _, header := range tableHeaders {
			hw.raw(`<th>`)
			hw.text(header)
			hw.raw(`</th>`)
		}
		hw.raw(`</tr></thead><tbody>`)
		for _, row := range data.Rows {
			branchRow(hw, row)
		}
		hw.raw(`</tbody></table>`)

		if data.ShowEmpty() {
			hw.raw(`<div class="noBranches"><p>`)
			hw.text(NoRunsMessage)
			hw.raw(`</p></div>`)
		}

		return hw.err
	})
}

func branchRow(hw *htmlWriter, row vm.BranchRowViewModel) {
	hw.raw(`<tr id="`)
	hw.text(row.ID)
	hw.raw(`"><td class="cellText"><a href="`)
	hw.url(row.BranchLink)
	hw.raw(`" target="_blank" rel="noopener noreferrer">`)
	hw.text(row.Branch)
	hw.raw(`</a>`)
	if row.IsDefault {
		hw.raw(` <span class="tag tag-default">default</span>`)
	}
	if row.Deleted {
		hw.raw(` <span class="tag tag-deleted">deleted</span>`)
	}
	hw.raw(`</td><td class="cellText">`)
	hw.text(row.LastBuildTime)
	hw.raw(`</td><td class="cellText `)
	hw.text(row.StatusClass)
	hw.raw(`" data-status="`)
	hw.text(row.Reason)
	hw.raw(`">`)
	hw.text(row.Reason)
	if row.MessageHTML != "" {
		hw.raw(`<details class="message"><summary>details</summary>`)
		hw.raw(row.MessageHTML)
		hw.raw(`</details>`)
	}
	hw.raw(`</td></tr>`)
}

func skeleton(hw *htmlWriter) {
	hw.raw(`<table class="data-table skeleton" data-testid="loading-table"><thead><tr>`)
	for range tableHeaders {
		hw.raw(`<th><span class="skeleton-bar"></span></th>`)
	}
	hw.raw(`</tr></thead><tbody><tr>`)
	for range tableHeaders {
		hw.raw(`<td><span class="skeleton-bar"></span></td>`)
	}
	hw.raw(`</tr></tbody></table>`)
}
