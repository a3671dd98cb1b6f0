package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	w   io.Writer
	err error
}

func (hw *writer) raw(parts ...string) {
	for _, part := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, part)
	}
}

func (hw *writer) text(value string) {
	hw.raw(templ.EscapeString(value))
}

// when returns value if on, otherwise the empty string open skips.
func when(on bool, value string) string {
	if on {
		return value
	}
	return ""
}

func (hw *writer) render(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// open writes a start tag with alternating attribute name/value pairs.
func (hw *writer) open(tag string, attrs ...string) {
	hw.raw("<", tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" && attrs[i] != "value" && attrs[i] != "alt" {
			continue
		}
		hw.raw(" ", attrs[i], `="`, templ.EscapeString(attrs[i+1]), `"`)
	}
	hw.raw(">")
}

func (hw *writer) close(tag string) {
	hw.raw("</", tag, ">")
}

// element writes a start tag, escaped text and the matching end tag.
func (hw *writer) element(tag, text string, attrs ...string) {
	hw.open(tag, attrs...)
	hw.text(text)
	hw.close(tag)
}

func component(fn func(ctx context.Context, hw *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &writer{w: w}
		fn(ctx, hw)
		return hw.err
	})
}
