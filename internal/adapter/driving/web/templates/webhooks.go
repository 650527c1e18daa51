package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/branchpanel/internal/adapter/driving/web/viewmodel"
)

// WebhookList renders the registered webhooks and the add form.
func WebhookList(data vm.WebhookListViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<h1>Webhooks</h1>`)
		if data.Error != "" {
			notification(hw, "Error:", data.Error)
		}

		if len(data.Webhooks) == 0 {
			hw.raw(`<p class="empty">No webhooks registered yet.</p>`)
		} else {
			hw.raw(`<table class="data-table"><thead><tr>`)
			hw.raw(`<th>Name</th><th>Repository</th><th>Namespace</th><th>Pipeline</th><th>Added</th><th></th>`)
			hw.raw(`</tr></thead><tbody>`)
			for _, wh := range data.Webhooks {
				webhookRow(hw, wh, data.CSRFToken)
			}
			hw.raw(`</tbody></table>`)
		}

		addForm(hw, data.Form, data.CSRFToken)
		return hw.err
	})
}

func webhookRow(hw *htmlWriter, wh vm.WebhookViewModel, csrfToken string) {
	hw.raw(`<tr><td><a href="`)
	hw.url(wh.BranchesPath)
	hw.raw(`">`)
	hw.text(wh.Name)
	hw.raw(`</a></td><td>`)
	repoLink(hw, wh)
	hw.raw(`</td><td>`)
	hw.text(orAll(wh.Namespace))
	hw.raw(`</td><td>`)
	hw.text(orAll(wh.Pipeline))
	hw.raw(`</td><td>`)
	hw.text(wh.AddedAt)
	hw.raw(`</td><td><form method="post" action="`)
	hw.url(wh.DeletePath)
	hw.raw(`">`)
	csrfField(hw, csrfToken)
	hw.raw(`<button type="submit" class="button-danger">Delete</button></form></td></tr>`)
}

func addForm(hw *htmlWriter, form vm.WebhookFormViewModel, csrfToken string) {
	hw.raw(`<h2>Add webhook</h2><form method="post" action="/webhooks" class="webhook-form">`)
	csrfField(hw, csrfToken)
	formInput(hw, "name", "Name", form.Name, true)
	formInput(hw, "url", "Repository URL", form.URL, true)
	formInput(hw, "namespace", "Namespace", form.Namespace, false)
	formInput(hw, "pipeline", "Pipeline", form.Pipeline, false)
	hw.raw(`<button type="submit">Add</button></form>`)
}

func formInput(hw *htmlWriter, name, label, value string, required bool) {
	hw.raw(`<label>`)
	hw.text(label)
	hw.raw(` <input type="text" name="`)
	hw.text(name)
	hw.raw(`" value="`)
	hw.text(value)
	hw.raw(`"`)
	if required {
		hw.raw(` required`)
	}
	hw.raw(`></label>`)
}

func csrfField(hw *htmlWriter, token string) {
	hw.raw(`<input type="hidden" name="csrf_token" value="`)
	hw.text(token)
	hw.raw(`">`)
}

// repoLink renders the repository URL, linked only when it is a web URL.
func repoLink(hw *htmlWriter, wh vm.WebhookViewModel) {
	if wh.RepoLink == "" {
		hw.text(wh.URL)
		return
	}
	hw.raw(`<a target="_blank" rel="noopener noreferrer" href="`)
	hw.url(wh.RepoLink)
	hw.raw(`">`)
	hw.text(wh.URL)
	hw.raw(`</a>`)
}

func orAll(s string) string {
	if s == "" {
		return "(all)"
	}
	return s
}
