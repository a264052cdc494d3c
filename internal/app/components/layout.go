package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// htmx 2 does not swap 4xx/5xx responses by default; the console renders
// error banners with error statuses, so they are swapped too.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

func LayoutPage(data models.LayoutTempl) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		title := data.Title
		if title == "" {
			title = "FraudGuard"
		}
		w.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.Printf(`<meta name="htmx-config" content="%s">`, Esc(htmxConfig))
		w.Printf(`<title>%s</title>`, Esc(title))
		w.Raw(`<link rel="stylesheet" href="/assets/css/app.css">`)
		w.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		w.Raw(`<script src="https://unpkg.com/htmx-ext-sse@2.2.2/sse.js" defer></script>`)
		w.Raw(`<script src="/assets/js/app.js" defer></script>`)
		w.Raw(`</head><body class="min-h-screen bg-slate-50 text-slate-900">`)

		w.Render(ctx, Navbar(data))

		w.Raw(`<main id="main" class="mx-auto max-w-7xl px-4 py-6">`)
		w.Render(ctx, data.Content)
		w.Raw(`</main></body></html>`)
	})
}

func Navbar(data models.LayoutTempl) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		w.Raw(`<header class="border-b bg-white"><nav class="mx-auto flex max-w-7xl items-center gap-6 px-4 py-3">`)
		w.Raw(`<a href="/" class="text-lg font-bold text-indigo-700">FraudGuard</a><ul class="flex gap-4">`)
		for _, item := range data.Nav.Items {
			cls := "text-sm text-slate-600 hover:text-slate-900"
			current := ""
			if item.Name == data.ActiveNav {
				cls = Classes(cls, "font-semibold text-indigo-700")
				current = ` aria-current="page"`
			}
			w.Printf(`<li><a href="%s" class="%s"%s>%s</a></li>`, Esc(item.URL), cls, current, Esc(item.Name))
		}
		w.Raw(`</ul>`)
		if s := data.Session; s != nil {
			w.Printf(`<div class="ml-auto flex items-center gap-3 text-sm"><span data-user="%s">%s</span>`, Esc(s.Username), Esc(s.DisplayName()))
			w.Printf(`<span class="rounded bg-slate-100 px-2 py-0.5 text-xs">%s</span>`, Esc(string(s.Role)))
			w.Raw(`<form method="post" action="/logout" hx-post="/logout"><button type="submit" class="text-slate-500 underline">Sign out</button></form></div>`)
		}
		w.Raw(`</nav></header>`)
	})
}
