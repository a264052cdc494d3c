package transactions

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

type DetailData struct {
	Transaction models.Transaction
	Location    string
	CanDelete   bool
}

func basePath(id models.ID) string {
	return "/transactions/" + url.PathEscape(id.String())
}

func field(w *components.Writer, name, label, value string) {
	w.Printf(`<div data-field="%s"><dt class="text-xs uppercase text-slate-500">%s</dt><dd class="mt-1">%s</dd></div>`,
		name, label, components.Esc(value))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func DetailPage(data DetailData) templ.Component {
	t := data.Transaction
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Printf(`<section id="transaction-detail" data-id="%s" data-level="%s">`, components.Esc(t.ID.String()), t.Level())
		w.Raw(`<a href="/dashboard" class="text-sm text-indigo-700 hover:underline">&larr; Back to dashboard</a>`)
		w.Render(ctx, components.PageHeader("Transaction "+t.Reference(), components.Timestamp(t.Timestamp.Time)))

		w.Raw(`<div class="grid gap-6 md:grid-cols-3">`)
		w.Raw(`<div class="rounded-lg border bg-white p-4 md:col-span-2"><dl class="grid grid-cols-2 gap-4">`)
		field(w, "amount", "Amount", components.Amount(t.Amount))
		field(w, "category", "Category", components.CategoryLabel(t.Category))
		field(w, "merchant", "Merchant", orDash(t.Merchant))
		field(w, "channel", "Channel", orDash(t.Channel))
		field(w, "type", "Type", orDash(t.Type))
		field(w, "card", "Card", orDash(t.CCNumber))
		if data.Location != "" {
			field(w, "location", "Location", data.Location)
		}
		if t.Description != "" {
			field(w, "description", "Description", t.Description)
		}
		w.Raw(`</dl></div>`)

		w.Raw(`<div class="space-y-4 rounded-lg border bg-white p-4">`)
		w.Raw(`<div id="risk"><p class="mb-1 text-xs uppercase text-slate-500">Risk</p>`)
		w.Render(ctx, components.RiskBadge(t.Score()))
		w.Raw(`<div class="mt-2">`)
		w.Render(ctx, components.ScoreBar(t.Score()))
		w.Raw(`</div></div>`)
		w.Raw(`<div><p class="mb-1 text-xs uppercase text-slate-500">Status</p><div id="current-status">`)
		w.Render(ctx, components.StatusBadge(t.Status))
		w.Raw(`</div></div>`)
		w.Render(ctx, StatusPanel(t.ID, "", nil))
		w.Raw(`</div></div>`)

		w.Raw(`<div class="mt-6 rounded-lg border bg-white p-4"><h2 class="font-semibold">AI analysis</h2>`)
		w.Printf(`<button type="button" class="mt-2 rounded border px-3 py-1 text-sm" hx-post="%s/analyze" hx-target="#analysis" hx-swap="outerHTML" hx-indicator="#analysis">Explain this score</button>`, components.Esc(basePath(t.ID)))
		w.Raw(`<div id="analysis"></div></div>`)

		if data.CanDelete {
			w.Printf(`<button id="delete-transaction" type="button" class="mt-6 rounded bg-red-600 px-3 py-1 text-sm text-white" hx-delete="%s" hx-confirm="Delete this transaction permanently?">Delete transaction</button>`, components.Esc(basePath(t.ID)))
		}
		w.Raw(`</section>`)
	})
}

// StatusPanel holds the review buttons and their feedback. When updated is
// set the current status badge elsewhere on the page is swapped out of band.
func StatusPanel(id models.ID, updated string, banner *components.BannerProps) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<div id="status-panel" class="space-y-2">`)
		if banner != nil {
			w.Render(ctx, components.Banner(*banner))
		}
		w.Raw(`<div class="flex flex-wrap gap-2">`)
		for _, status := range models.ReviewStatuses {
			w.Printf(`<button type="button" class="rounded border px-3 py-1 text-sm" name="status" value="%s" hx-post="%s/status" hx-vals='{"status":"%s"}' hx-target="#status-panel" hx-swap="outerHTML">Mark as %s</button>`,
				status, components.Esc(basePath(id)), status, components.Label(status))
		}
		w.Raw(`</div></div>`)
		if updated != "" {
			w.Raw(`<div id="current-status" hx-swap-oob="innerHTML">`)
			w.Render(ctx, components.StatusBadge(updated))
			w.Raw(`</div>`)
		}
	})
}

// AnalysisPanel shows the explanation, or errMsg when it could not be produced.
func AnalysisPanel(reason, errMsg string) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<div id="analysis" class="mt-3 text-sm">`)
		if errMsg != "" {
			w.Render(ctx, components.ErrorBanner("analysis-error", errMsg))
		} else {
			w.Printf(`<p data-reason class="whitespace-pre-line">%s</p>`, components.Esc(reason))
		}
		w.Raw(`</div>`)
	})
}
