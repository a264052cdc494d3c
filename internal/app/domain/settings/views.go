package settings

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

func SettingsPage(s *models.Session, mfaEnabled bool) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<section id="settings" class="max-w-2xl">`)
		w.Render(ctx, components.PageHeader("Settings", "Your account"))
		w.Raw(`<dl class="divide-y rounded-lg border bg-white">`)
		row := func(key, label, value string) {
			w.Printf(`<div class="flex justify-between px-4 py-3" data-setting="%s"><dt class="text-sm text-slate-500">%s</dt><dd class="text-sm font-medium">%s</dd></div>`,
				key, label, components.Esc(value))
		}
		if s != nil {
			row("username", "Username", s.DisplayName())
			row("email", "Email", s.Email)
			row("role", "Role", components.Label(string(s.Role)))
			row("user-id", "User ID", strconv.FormatInt(s.UserID, 10))
		}
		mfa := "Disabled"
		if mfaEnabled {
			mfa = "Enabled"
		}
		row("mfa", "Multi-factor authentication", mfa)
		w.Raw(`</dl></section>`)
	})
}
