package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("All Tasks have completed executing")
	assert.Contains(t, result, "All Tasks have completed executing")
}

func TestRenderMarkdown_InlineCode(t *testing.T) {
	result := RenderMarkdown("Task `build` failed")
	assert.Contains(t, result, "<code>build</code>")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[logs](https://example.com/logs)")
	assert.Contains(t, result, `<a href="https://example.com/logs"`)
	assert.Contains(t, result, "logs</a>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_SanitizesJavascriptLink(t *testing.T) {
	result := RenderMarkdown("[x](javascript:alert(1))")
	assert.NotContains(t, result, "javascript:")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "pipelineruns.tekton.dev is forbidden", want: "pipelineruns.tekton.dev is forbidden"},
		{name: "html page", input: "<html><body><h1>502 Bad Gateway</h1>\n<hr>nginx</body></html>", want: "502 Bad Gateway nginx"},
		{name: "entities kept as text", input: `{"message":"a < b"}`, want: `{"message":"a < b"}`},
		{name: "whitespace collapsed", input: "  line one\n\n  line two  ", want: "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}
