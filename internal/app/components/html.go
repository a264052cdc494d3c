// Package components holds the shared templ components of the console.
// They are written as templ.ComponentFunc values.
package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

// Classes joins tailwind class lists, letting later classes override
// conflicting earlier ones.
func Classes(parts ...string) string {
	return twmerge.Merge(strings.Join(parts, " "))
}

// Esc escapes text for HTML content and attribute values.
func Esc(s string) string {
	return templ.EscapeString(s)
}

// Writer writes markup and keeps the first error, so a component body can
// be a flat list of writes with one error check at the end.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Printf writes formatted markup. Arguments are not escaped.
func (hw *Writer) Printf(format string, args ...any) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

// Raw writes trusted markup.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Text writes escaped text.
func (hw *Writer) Text(s string) {
	hw.Raw(Esc(s))
}

func (hw *Writer) Render(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

func (hw *Writer) Err() error { return hw.err }

// Func adapts a body written against Writer into a component.
func Func(body func(ctx context.Context, w *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		body(ctx, hw)
		return hw.Err()
	})
}

// RenderString renders c into a string, for SSE payloads.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
