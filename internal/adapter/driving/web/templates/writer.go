// Package templates holds the templ components of the web GUI.
package templates

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup as is.
func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes s escaped for element content or a quoted attribute value.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// url writes u as a quoted-attribute-safe URL. Unsafe schemes are replaced
// by templ's failed-sanitization placeholder.
func (hw *htmlWriter) url(u string) {
	hw.text(string(templ.URL(u)))
}
