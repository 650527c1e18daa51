package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title><link rel="stylesheet" href="/static/app.css">`)
		hw.raw(`<script src="/static/branches.js" defer></script></head>`)
		hw.raw(`<body><header class="topbar"><a href="/" class="brand">branchpanel</a></header><main>`)
		if hw.err != nil {
			return hw.err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		hw.raw(`</main></body></html>`)
		return hw.err
	})
}

// notification renders an inline error box.
func notification(hw *htmlWriter, title, subtitle string) {
	hw.raw(`<div class="notification notification-error" role="alert"><strong class="notification-title">`)
	hw.text(title)
	hw.raw(`</strong> <span class="notification-subtitle">`)
	hw.text(subtitle)
	hw.raw(`</span></div>`)
}
