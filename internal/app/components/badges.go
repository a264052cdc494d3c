package components

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

var riskClasses = map[models.RiskLevel]string{
	models.RiskHigh:   "bg-red-100 text-red-800 ring-red-600/20",
	models.RiskMedium: "bg-amber-100 text-amber-800 ring-amber-600/20",
	models.RiskLow:    "bg-emerald-100 text-emerald-800 ring-emerald-600/20",
}

const badgeBase = "inline-flex items-center rounded-full px-2 py-0.5 text-xs font-semibold ring-1 ring-inset"

// RiskBadge shows the level derived from score together with the score.
func RiskBadge(score float64) templ.Component {
	level := models.RiskLevelFor(score)
	return Func(func(ctx context.Context, w *Writer) {
		w.Printf(`<span class="%s" data-risk="%s">%s · %d%%</span>`,
			Classes(badgeBase, riskClasses[level]), level, level, models.Percent(score))
	})
}

var statusClasses = map[string]string{
	models.StatusBlocked:     "bg-red-100 text-red-800",
	models.StatusFraud:       "bg-red-100 text-red-800",
	models.StatusFlagged:     "bg-amber-100 text-amber-800",
	models.StatusUnderReview: "bg-amber-100 text-amber-800",
	models.StatusApproved:    "bg-emerald-100 text-emerald-800",
	models.StatusLegitimate:  "bg-emerald-100 text-emerald-800",
}

func StatusBadge(status string) templ.Component {
	return Func(func(ctx context.Context, w *Writer) {
		if status == "" {
			w.Raw(`<span class="text-slate-400">—</span>`)
			return
		}
		cls, ok := statusClasses[status]
		if !ok {
			cls = "bg-slate-100 text-slate-700"
		}
		w.Printf(`<span class="%s" data-status="%s">%s</span>`,
			Classes(badgeBase, "ring-0", cls), Esc(status), Esc(Label(status)))
	})
}

// ScoreBar is a horizontal meter of the risk score.
func ScoreBar(score float64) templ.Component {
	level := models.RiskLevelFor(score)
	fill := map[models.RiskLevel]string{
		models.RiskHigh:   "bg-red-500",
		models.RiskMedium: "bg-amber-500",
		models.RiskLow:    "bg-emerald-500",
	}[level]
	return Func(func(ctx context.Context, w *Writer) {
		w.Printf(`<div class="h-2 w-full rounded bg-slate-200" role="meter" aria-valuemin="0" aria-valuemax="100" aria-valuenow="%d">`, models.Percent(score))
		w.Printf(`<div class="%s" style="%s"></div></div>`, Classes("h-2 rounded", fill), templ.SafeCSS(fmt.Sprintf("width: %d%%", models.Percent(score))))
	})
}
