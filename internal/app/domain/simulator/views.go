package simulator

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
)

const (
	defaultCard     = "user_001"
	defaultAmount   = "50"
	defaultCategory = "grocery_pos"
)

func SimulatorPage(history []Result) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<section id="simulator">`)
		w.Render(ctx, components.PageHeader("POS simulator", "Send point-of-sale transactions through the fraud check"))
		w.Raw(`<div class="grid gap-6 lg:grid-cols-2">`)
		w.Render(ctx, posForm())
		w.Render(ctx, ResultsPanel(history, nil))
		w.Raw(`</div></section>`)
	})
}

func posForm() templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<form id="pos-form" class="space-y-4 rounded-lg border bg-white p-4" hx-post="/simulator/check" hx-target="#simulator-results" hx-swap="outerHTML" hx-indicator="#simulator-busy">`)
		w.Printf(`<label class="block text-sm">Card number<input name="cc_number" required value="%s" class="mt-1 w-full rounded border px-3 py-2"></label>`, defaultCard)
		w.Printf(`<label class="block text-sm">Amount<input name="amount" type="number" min="0.01" step="0.01" required value="%s" class="mt-1 w-full rounded border px-3 py-2"></label>`, defaultAmount)

		w.Raw(`<label class="block text-sm">Category<select name="category" class="mt-1 w-full rounded border px-3 py-2">`)
		for _, cat := range Categories {
			selected := ""
			if cat == defaultCategory {
				selected = " selected"
			}
			w.Printf(`<option value="%s"%s>%s</option>`, cat, selected, components.Esc(components.CategoryLabel(cat)))
		}
		w.Raw(`</select></label>`)

		w.Raw(`<label class="block text-sm">Location<select name="preset" class="mt-1 w-full rounded border px-3 py-2">`)
		for i, loc := range Locations {
			selected := ""
			if i == 0 {
				selected = " selected"
			}
			w.Printf(`<option value="%d"%s>%s</option>`, i, selected, components.Esc(loc.Name))
		}
		w.Raw(`<option value="custom">Custom coordinates</option></select></label>`)
		w.Printf(`<div class="grid grid-cols-2 gap-2"><label class="block text-sm">Latitude<input name="latitude" value="%s" class="mt-1 w-full rounded border px-3 py-2"></label>`, coord(Locations[0].Lat))
		w.Printf(`<label class="block text-sm">Longitude<input name="longitude" value="%s" class="mt-1 w-full rounded border px-3 py-2"></label></div>`, coord(Locations[0].Lon))

		w.Raw(`<div class="flex flex-wrap gap-2">`)
		w.Raw(`<button type="submit" class="rounded bg-indigo-600 px-3 py-2 text-sm text-white">Submit transaction</button>`)
		w.Raw(`<button type="button" class="rounded border px-3 py-2 text-sm" hx-post="/simulator/burst" hx-include="#pos-form" hx-target="#simulator-results" hx-swap="outerHTML" hx-indicator="#simulator-busy">Rapid burst (5)</button>`)
		w.Raw(`<button type="button" class="rounded border px-3 py-2 text-sm" hx-post="/simulator/velocity" hx-include="#pos-form" hx-target="#simulator-results" hx-swap="outerHTML" hx-indicator="#simulator-busy">Velocity attack</button>`)
		w.Raw(`</div><p id="simulator-busy" class="htmx-indicator text-sm text-slate-500">Submitting…</p></form>`)
	})
}

func coord(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// ResultsPanel lists the user's submissions, newest first.
func ResultsPanel(history []Result, banner *components.BannerProps) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<div id="simulator-results" class="rounded-lg border bg-white p-4">`)
		w.Raw(`<div class="mb-3 flex items-center justify-between"><h2 class="font-semibold">Results</h2>`)
		w.Raw(`<button type="button" class="text-sm text-slate-500 hover:underline" hx-post="/simulator/clear" hx-target="#simulator-results" hx-swap="outerHTML">Clear</button></div>`)
		if banner != nil {
			w.Render(ctx, components.Banner(*banner))
		}
		if len(history) == 0 {
			w.Raw(`<p data-empty class="text-sm text-slate-500">No simulated transactions yet.</p></div>`)
			return
		}
		w.Raw(`<ol class="divide-y">`)
		for _, r := range history {
			t := r.Transaction
			w.Printf(`<li class="py-2" data-id="%s" data-scenario="%s" data-level="%s">`, components.Esc(t.ID.String()), r.Scenario, t.Level())
			w.Printf(`<div class="flex items-center justify-between"><span class="font-mono text-xs">%s</span>`, components.Esc(t.Reference()))
			w.Render(ctx, components.RiskBadge(t.Score()))
			w.Printf(`</div><p class="text-sm"><span data-amount>%s</span> · %s · <span class="text-slate-500">%s</span></p>`,
				components.Esc(components.Amount(t.Amount)),
				components.Esc(components.CategoryLabel(t.Category)),
				r.SubmittedAt.Format("15:04:05"))
			w.Raw(`</li>`)
		}
		w.Raw(`</ol></div>`)
	})
}
