package components

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// TransactionRows renders the <tr> elements of a transaction table. Streams
// swap these into the table body.
func TransactionRows(txns []models.Transaction, emptyText string) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		if len(txns) == 0 {
			w.Printf(`<tr data-empty><td colspan="6" class="py-8 text-center text-slate-500">%s</td></tr>`, Esc(emptyText))
			return
		}
		for _, t := range txns {
			href := "/transactions/" + url.PathEscape(t.ID.String())
			w.Printf(`<tr data-id="%s" data-level="%s" class="border-t hover:bg-slate-50">`, Esc(t.ID.String()), t.Level())
			w.Printf(`<td class="px-3 py-2 font-mono text-xs"><a href="%s" class="text-indigo-700 hover:underline">%s</a></td>`, Esc(href), Esc(t.Reference()))
			w.Printf(`<td class="px-3 py-2 text-right tabular-nums" data-amount>%s</td>`, Esc(Amount(t.Amount)))
			w.Printf(`<td class="px-3 py-2">%s</td>`, Esc(CategoryLabel(t.Category)))
			w.Raw(`<td class="px-3 py-2">`)
			w.Render(ctx, RiskBadge(t.Score()))
			w.Raw(`</td><td class="px-3 py-2">`)
			w.Render(ctx, StatusBadge(t.Status))
			w.Printf(`</td><td class="px-3 py-2 text-xs text-slate-500">%s</td>`, Esc(Timestamp(t.Timestamp.Time)))
			w.Raw(`</tr>`)
		}
	})
}

// TransactionTable wraps TransactionRows. When sseEvent is set the body is
// replaced by every event of that name on the enclosing SSE connection.
func TransactionTable(id, sseEvent string, txns []models.Transaction, emptyText string) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		w.Printf(`<table id="%s" class="min-w-full text-sm">`, Esc(id))
		w.Raw(`<thead class="bg-slate-50 text-left text-xs uppercase text-slate-500"><tr>`)
		w.Raw(`<th class="px-3 py-2">Transaction</th><th class="px-3 py-2 text-right">Amount</th><th class="px-3 py-2">Category</th>`)
		w.Raw(`<th class="px-3 py-2">Risk</th><th class="px-3 py-2">Status</th><th class="px-3 py-2">Time</th></tr></thead>`)
		if sseEvent != "" {
			w.Printf(`<tbody sse-swap="%s" hx-swap="innerHTML">`, Esc(sseEvent))
		} else {
			w.Raw(`<tbody>`)
		}
		w.Render(ctx, TransactionRows(txns, emptyText))
		w.Raw(`</tbody></table>`)
	})
}

// LiveStatus reports whether the last poll of a stream succeeded.
func LiveStatus(err error, at string) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		if err != nil {
			w.Printf(`<span data-live="stale" class="text-amber-700">Connection problem, showing data from %s</span>`, Esc(at))
			return
		}
		w.Printf(`<span data-live="ok" class="text-emerald-700">Live · updated %s</span>`, Esc(at))
	})
}
