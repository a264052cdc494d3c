package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
	Icon string
}

type Navigation struct {
	Items []NavItem
}

type LayoutTempl struct {
	Title     string
	Session   *Session
	Nav       Navigation
	ActiveNav string
	Content   templ.Component
}

var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Dashboard", URL: "/dashboard"},
		{Name: "Alerts", URL: "/alerts"},
		{Name: "Simulator", URL: "/simulator"},
		{Name: "Settings", URL: "/settings"},
	},
}

var AdminNav = Navigation{
	Items: append(append([]NavItem{}, MainNav.Items...), NavItem{Name: "Users", URL: "/admin/users"}),
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Sign in", URL: "/login"},
	},
}

// NavFor picks the navigation matching the session's privileges.
func NavFor(s *Session) Navigation {
	switch {
	case s == nil:
		return OfflineNav
	case s.IsAdmin():
		return AdminNav
	default:
		return MainNav
	}
}
