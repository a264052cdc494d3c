package dashboard

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

const emptyText = "No transactions yet"

type DashboardData struct {
	Transactions []models.Transaction
	Stats        *models.TransactionStats
	Banner       *components.BannerProps
	UpdatedAt    time.Time
}

func DashboardPage(data DashboardData) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<section id="dashboard" hx-ext="sse" sse-connect="/dashboard/stream">`)
		w.Render(ctx, components.PageHeader("Transaction monitor", "Latest transactions, refreshed every second"))
		if data.Banner != nil {
			w.Render(ctx, components.Banner(*data.Banner))
		}
		w.Raw(`<p id="live-status" class="mb-4 text-xs" sse-swap="status" hx-swap="innerHTML">`)
		w.Render(ctx, components.LiveStatus(nil, data.UpdatedAt.Format("15:04:05")))
		w.Raw(`</p>`)
		w.Raw(`<div id="stats" sse-swap="stats" hx-swap="innerHTML">`)
		w.Render(ctx, StatsCards(data.Stats))
		w.Raw(`</div>`)
		w.Raw(`<div class="mt-6 overflow-x-auto rounded-lg border bg-white">`)
		w.Render(ctx, components.TransactionTable("transactions", "transactions", data.Transactions, emptyText))
		w.Raw(`</div></section>`)
	})
}

type statCard struct {
	key   string
	label string
	value int64
	tone  string
}

// StatsCards renders the counters of GET /api/transactions/stats as the
// backend buckets them. A nil stats value renders a placeholder.
func StatsCards(s *models.TransactionStats) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<div class="grid grid-cols-2 gap-4 md:grid-cols-4">`)
		if s == nil {
			w.Raw(`<div data-stat="unavailable" class="col-span-full rounded-lg border bg-white p-4 text-slate-500">Statistics unavailable</div></div>`)
			return
		}
		cards := []statCard{
			{"total", "Total", s.Total, "text-slate-900"},
			{"critical", "Critical", s.Critical, "text-red-800"},
			{"high", "High risk", s.HighRisk, "text-red-700"},
			{"medium", "Medium risk", s.MediumRisk, "text-amber-700"},
			{"low", "Low risk", s.LowRisk, "text-emerald-700"},
			{"flagged", "Flagged", s.Flagged, "text-amber-700"},
			{"blocked", "Blocked", s.Blocked, "text-red-700"},
		}
		for _, card := range cards {
			w.Printf(`<div data-stat="%s" class="rounded-lg border bg-white p-4">`, card.key)
			w.Printf(`<p class="text-xs uppercase text-slate-500">%s</p>`, card.label)
			w.Printf(`<p class="%s">%s</p></div>`, components.Classes("text-2xl font-semibold tabular-nums", card.tone), components.Count(card.value))
		}
		w.Raw(`</div>`)
	})
}
