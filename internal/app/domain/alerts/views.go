package alerts

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

func AlertsPage(txns []models.Transaction, period time.Duration) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<section id="alerts" hx-ext="sse" sse-connect="/alerts/stream">`)
		w.Render(ctx, components.PageHeader("High-risk alerts", "Transactions scored at or above 70%, refreshed every "+period.String()))
		w.Raw(`<div sse-swap="alerts" hx-swap="innerHTML">`)
		w.Render(ctx, AlertsBody(txns))
		w.Raw(`</div></section>`)
	})
}

// AlertsBody is the part of the page replaced by the stream.
func AlertsBody(txns []models.Transaction) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Printf(`<p id="alert-count" class="mb-3 text-sm text-slate-600" data-count="%d">%s open alerts</p>`,
			len(txns), components.Count(int64(len(txns))))
		w.Raw(`<div class="overflow-x-auto rounded-lg border bg-white">`)
		w.Render(ctx, components.TransactionTable("alert-list", "", txns, "No high-risk transactions"))
		w.Raw(`</div>`)
	})
}
