package components

import (
	"context"

	"github.com/a-h/templ"
)

type BannerType string

const (
	BannerError   BannerType = "error"
	BannerWarning BannerType = "warning"
	BannerSuccess BannerType = "success"
	BannerInfo    BannerType = "info"
)

type BannerProps struct {
	ID          string
	Type        BannerType
	Message     string
	Description string
	Dismissable bool
}

var bannerClasses = map[BannerType]string{
	BannerError:   "border-red-300 bg-red-50 text-red-800",
	BannerWarning: "border-amber-300 bg-amber-50 text-amber-800",
	BannerSuccess: "border-emerald-300 bg-emerald-50 text-emerald-800",
	BannerInfo:    "border-sky-300 bg-sky-50 text-sky-800",
}

func Banner(p BannerProps) templ.Component {
	if p.Type == "" {
		p.Type = BannerInfo
	}
	return Func(func(ctx context.Context, w *Writer) {
		role := "status"
		if p.Type == BannerError {
			role = "alert"
		}
		w.Printf(`<div id="%s" role="%s" data-banner="%s" class="%s">`,
			Esc(p.ID), role, p.Type, Classes("rounded-md border px-4 py-3 text-sm", bannerClasses[p.Type]))
		w.Printf(`<p class="font-medium">%s</p>`, Esc(p.Message))
		if p.Description != "" {
			w.Printf(`<p class="mt-1 opacity-80">%s</p>`, Esc(p.Description))
		}
		if p.Dismissable {
			w.Raw(`<button type="button" class="mt-2 text-xs underline" onclick="this.parentElement.remove()">Dismiss</button>`)
		}
		w.Raw(`</div>`)
	})
}

func ErrorBanner(id, message string) templ.Component {
	return Banner(BannerProps{ID: id, Type: BannerError, Message: message, Dismissable: true})
}
