package components

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

func NotFoundPage() templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		w.Raw(`<section id="not-found" class="py-24 text-center">`)
		w.Raw(`<h1 class="text-4xl font-bold">404</h1>`)
		w.Raw(`<p class="mt-2 text-slate-600">The page you are looking for does not exist.</p>`)
		w.Raw(`<a href="/dashboard" class="mt-6 inline-block text-indigo-700 underline">Back to the dashboard</a>`)
		w.Raw(`</section>`)
	})
}

// ErrorPanel is a full-width error block for pages whose data failed to load.
func ErrorPanel(status int, message string) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		w.Printf(`<section id="error-panel" data-status="%d" class="py-16 text-center">`, status)
		w.Printf(`<h1 class="text-2xl font-semibold">%s</h1>`, Esc(http.StatusText(status)))
		w.Printf(`<p class="mt-2 text-slate-600">%s</p>`, Esc(message))
		w.Raw(`</section>`)
	})
}

// PageHeader renders the title row shared by every page.
func PageHeader(title, subtitle string) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		w.Printf(`<div class="mb-6"><h1 class="text-2xl font-semibold">%s</h1>`, Esc(title))
		if subtitle != "" {
			w.Printf(`<p class="text-sm text-slate-500">%s</p>`, Esc(subtitle))
		}
		w.Raw(`</div>`)
	})
}
