package user

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

type FormData struct {
	ID     models.ID
	Input  models.UserInput
	Errors FieldErrors
	Banner *components.BannerProps
}

func userPath(id models.ID) string {
	return listPath + "/" + url.PathEscape(id.String())
}

func UsersPage(users []models.User, role models.Role, self models.ID) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		w.Raw(`<section id="users">`)
		w.Raw(`<div class="flex items-center justify-between">`)
		w.Render(ctx, components.PageHeader("Users", "Console accounts and their roles"))
		w.Raw(`<a href="/admin/users/new" class="rounded bg-indigo-600 px-3 py-2 text-sm text-white">New user</a></div>`)

		w.Raw(`<nav class="mb-4 flex gap-3 text-sm" aria-label="Filter by role">`)
		filters := append([]models.Role{""}, models.AssignableRoles...)
		for _, r := range filters {
			label, href := "All", listPath
			if r != "" {
				label, href = components.Label(string(r)), listPath+"?role="+url.QueryEscape(string(r))
			}
			current := ""
			if r == role || (r != "" && r.Matches(role)) {
				current = ` aria-current="page"`
			}
			w.Printf(`<a href="%s"%s class="hover:underline">%s</a>`, components.Esc(href), current, label)
		}
		w.Raw(`</nav>`)

		w.Raw(`<div id="user-feedback"></div>`)
		w.Raw(`<div class="overflow-x-auto rounded-lg border bg-white"><table id="user-list" class="min-w-full text-sm">`)
		w.Raw(`<thead class="bg-slate-50 text-left text-xs uppercase text-slate-500"><tr><th class="px-3 py-2">Username</th><th class="px-3 py-2">Email</th><th class="px-3 py-2">Role</th><th class="px-3 py-2">Status</th><th class="px-3 py-2"></th></tr></thead><tbody>`)
		if len(users) == 0 {
			w.Raw(`<tr data-empty><td colspan="5" class="py-8 text-center text-slate-500">No users found</td></tr>`)
		}
		for _, u := range users {
			w.Render(ctx, UserRow(u, u.ID == self))
		}
		w.Raw(`</tbody></table></div></section>`)
	})
}

// UserRow is one table row. Actions target the row itself, so toggling
// swaps the row and deleting removes it.
func UserRow(u models.User, self bool) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		path := components.Esc(userPath(u.ID))
		state, stateClass := "Disabled", "text-slate-500"
		if u.Enabled {
			state, stateClass = "Enabled", "text-emerald-700"
		}
		w.Printf(`<tr data-id="%s" data-enabled="%t" class="border-t">`, components.Esc(u.ID.String()), u.Enabled)
		w.Printf(`<td class="px-3 py-2 font-medium">%s</td>`, components.Esc(u.Username))
		w.Printf(`<td class="px-3 py-2">%s</td>`, components.Esc(u.Email))
		w.Printf(`<td class="px-3 py-2" data-role>%s</td>`, components.Esc(string(u.Role)))
		w.Printf(`<td class="px-3 py-2 %s">%s</td>`, stateClass, state)
		w.Raw(`<td class="space-x-2 px-3 py-2 text-right">`)
		w.Printf(`<a href="%s/edit" class="text-indigo-700 hover:underline">Edit</a>`, path)
		if !self {
			toggle := "Disable"
			if !u.Enabled {
				toggle = "Enable"
			}
			w.Printf(`<button type="button" data-action="toggle" hx-post="%s/toggle" hx-target="closest tr" hx-swap="outerHTML">%s</button>`, path, toggle)
			w.Printf(`<button type="button" data-action="delete" class="text-red-700" hx-delete="%s" hx-target="closest tr" hx-swap="outerHTML" hx-confirm="Delete %s?">Delete</button>`, path, components.Esc(u.Username))
		}
		w.Raw(`</td></tr>`)
	})
}

func fieldError(w *components.Writer, errs FieldErrors, field string) {
	if msg, ok := errs[field]; ok {
		w.Printf(`<p class="mt-1 text-xs text-red-700" data-error="%s">%s</p>`, field, components.Esc(msg))
	}
}

func UserForm(data FormData) templ.Component {
	creating := data.ID == ""
	return components.Func(func(ctx context.Context, w *components.Writer) {
		action, title := listPath, "New user"
		if !creating {
			action, title = userPath(data.ID), "Edit user"
		}
		w.Printf(`<form id="user-form" method="post" action="%s" hx-post="%s" hx-target="this" hx-swap="outerHTML" class="max-w-lg space-y-4 rounded-lg border bg-white p-4">`,
			components.Esc(action), components.Esc(action))
		w.Printf(`<h1 class="text-xl font-semibold">%s</h1>`, title)
		if data.Banner != nil {
			w.Render(ctx, components.Banner(*data.Banner))
		}

		w.Raw(`<label class="block text-sm">Username`)
		if creating {
			w.Printf(`<input name="username" required value="%s" hx-get="/admin/users/check-username" hx-trigger="keyup changed delay:400ms" hx-target="#username-hint" class="mt-1 w-full rounded border px-3 py-2">`, components.Esc(data.Input.Username))
		} else {
			w.Printf(`<input name="username" required value="%s" class="mt-1 w-full rounded border px-3 py-2">`, components.Esc(data.Input.Username))
		}
		w.Raw(`</label><span id="username-hint"></span>`)
		fieldError(w, data.Errors, "username")

		w.Printf(`<label class="block text-sm">Email<input name="email" type="email" required value="%s" class="mt-1 w-full rounded border px-3 py-2"></label>`, components.Esc(data.Input.Email))
		fieldError(w, data.Errors, "email")

		placeholder := ""
		if !creating {
			placeholder = ` placeholder="Leave blank to keep the current password"`
		}
		w.Printf(`<label class="block text-sm">Password<input name="password" type="password" autocomplete="new-password"%s class="mt-1 w-full rounded border px-3 py-2"></label>`, placeholder)
		fieldError(w, data.Errors, "password")

		w.Raw(`<label class="block text-sm">Role<select name="role" class="mt-1 w-full rounded border px-3 py-2">`)
		for _, r := range models.AssignableRoles {
			selected := ""
			if r.Matches(data.Input.Role) {
				selected = " selected"
			}
			w.Printf(`<option value="%s"%s>%s</option>`, r, selected, components.Label(string(r)))
		}
		w.Raw(`</select></label>`)
		fieldError(w, data.Errors, "role")

		checked := ""
		if data.Input.Enabled {
			checked = " checked"
		}
		w.Printf(`<label class="flex items-center gap-2 text-sm"><input type="checkbox" name="enabled"%s> Enabled</label>`, checked)

		w.Raw(`<div class="flex gap-2"><button type="submit" class="rounded bg-indigo-600 px-3 py-2 text-sm text-white">Save</button>`)
		w.Raw(`<a href="/admin/users" class="rounded border px-3 py-2 text-sm">Cancel</a></div></form>`)
	})
}

// UsernameHint tells the admin whether a username is free.
func UsernameHint(username string, available, failed bool) templ.Component {
	return components.Func(func(ctx context.Context, w *components.Writer) {
		switch {
		case username == "":
		case failed:
			w.Raw(`<span data-available="unknown" class="text-xs text-slate-500">Could not check availability</span>`)
		case available:
			w.Raw(`<span data-available="true" class="text-xs text-emerald-700">Available</span>`)
		default:
			w.Raw(`<span data-available="false" class="text-xs text-red-700">Already taken</span>`)
		}
	})
}
