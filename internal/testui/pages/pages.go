// Package pages serves the testing UI pages. Each page is a fixed route bound
// to a template file rendered with a request-independent title.
package pages

// Tag groups the testing UI routes in logs.
const Tag = "testing-ui"

// Page binds a route, relative to the mount prefix, to a template file.
type Page struct {
	Route    string
	Template string
	Title    string
	Summary  string
}

var table = []Page{
	{
		Route:    "/auth",
		Template: "auth_test.html",
		Title:    "Auth API Testing Interface",
		Summary:  "Authentication Testing Page",
	},
	{
		Route:    "/login",
		Template: "auth_login.html",
		Title:    "Login - Authentication",
		Summary:  "Authentication Login Page",
	},
	{
		Route:    "/notifications",
		Template: "notifications_test.html",
		Title:    "Notifications API Testing Interface",
		Summary:  "Notifications API Testing Page",
	},
	{
		Route:    "/notifications/live",
		Template: "notifications_live.html",
		Title:    "Notifications - Live Feed",
		Summary:  "Notifications Live Feed Page",
	},
}

// Table returns a copy of the page table.
func Table() []Page {
	out := make([]Page, len(table))
	copy(out, table)
	return out
}
