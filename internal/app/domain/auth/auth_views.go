package auth

import (
	"context"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
)

func LoginPage(username string, banner *components.BannerProps) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<section class="mx-auto mt-16 max-w-sm rounded-lg border bg-white p-6 shadow-sm">`)
		w.Raw(`<h1 class="mb-1 text-xl font-semibold">Sign in to FraudGuard</h1>`)
		w.Raw(`<p class="mb-6 text-sm text-slate-500">Fraud monitoring console</p>`)
		w.Raw(`<form id="login-form" method="post" action="/login" hx-post="/login" hx-target="#login-feedback" hx-swap="innerHTML" class="space-y-4">`)
		w.Raw(`<div id="login-feedback">`)
		if banner != nil {
			w.Render(ctx, components.Banner(*banner))
		}
		w.Raw(`</div>`)
		w.Printf(`<label class="block text-sm">Username<input name="username" type="text" autocomplete="username" required value="%s" class="mt-1 w-full rounded border px-3 py-2"></label>`, components.Esc(username))
		w.Raw(`<label class="block text-sm">Password<input name="password" type="password" autocomplete="current-password" required class="mt-1 w-full rounded border px-3 py-2"></label>`)
		w.Raw(`<button type="submit" class="w-full rounded bg-indigo-600 py-2 font-medium text-white hover:bg-indigo-700">Sign in</button>`)
		w.Raw(`</form></section>`)
	})
}
