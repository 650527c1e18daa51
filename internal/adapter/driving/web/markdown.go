package web

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
	textSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
}

// RenderMarkdown converts a condition message to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// PlainText strips all markup from s and collapses whitespace. Dashboard
// error bodies are sometimes HTML pages from a proxy; only their text is
// shown. The result is unescaped text and must be escaped when rendered.
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	stripped := html.UnescapeString(textSanitizer.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}
