package ui

import (
	"strings"

	"golang.org/x/text/message"

	"eventgo/internal/router"
)

// PageData is what every page template receives.
type PageData struct {
	Title  string
	Page   router.Page
	Path   string
	Locale string
	Nav    []NavItem
	Toast  *Toast
	// Errors maps form field names to validation messages.
	Errors map[string]string
	Data   any

	// Ready marks the page as fully rendered for headless capture.
	Ready bool
	Print bool

	printer *message.Printer
}

// NewPageData builds the common page data for a resolved route.
func NewPageData(m *router.Match, p *message.Printer, locale string) *PageData {
	return &PageData{
		Title:   m.Title,
		Page:    m.Route.Page,
		Path:    m.Path,
		Locale:  locale,
		Nav:     Navigation(m.Path),
		Errors:  map[string]string{},
		Ready:   true,
		printer: p,
	}
}

// T translates a message key.
func (p *PageData) T(key string, args ...any) string {
	if p.printer == nil {
		return key
	}
	return p.printer.Sprintf(key, args...)
}

// Error returns the validation message for a form field.
func (p *PageData) Error(field string) string {
	return p.Errors[field]
}

// Fail attaches an error toast.
func (p *PageData) Fail(msg string) {
	p.Toast = &Toast{Kind: ToastError, Message: msg}
}

// Toast kinds.
const (
	ToastError   = "error"
	ToastSuccess = "success"
	ToastInfo    = "info"
)

type Toast struct {
	Kind    string
	Message string
}

// NavItem is one sidebar entry.
type NavItem struct {
	Key    string
	Href   string
	Icon   string
	Active bool
}

var navItems = []NavItem{
	{Key: "nav.dashboard", Href: "/dashboard", Icon: "▦"},
	{Key: "nav.events", Href: "/events", Icon: "★"},
	{Key: "nav.tasks", Href: "/tasks", Icon: "✓"},
	{Key: "nav.quotes", Href: "/quotes", Icon: "$"},
	{Key: "nav.messages", Href: "/messages", Icon: "✉"},
	{Key: "nav.profile", Href: "/profile", Icon: "☺"},
	{Key: "nav.albums", Href: "/profile/albums", Icon: "▣"},
}

// Navigation returns the sidebar with the entry owning path marked
// active. The longest matching prefix wins, so /profile/albums is not
// reported as /profile.
func Navigation(path string) []NavItem {
	out := make([]NavItem, len(navItems))
	copy(out, navItems)

	best := -1
	for i, it := range out {
		if path == it.Href || strings.HasPrefix(path, it.Href+"/") {
			if best < 0 || len(it.Href) > len(out[best].Href) {
				best = i
			}
		}
	}
	if best >= 0 {
		out[best].Active = true
	}
	return out
}

// Option is a select option.
type Option struct {
	Value string
	Label string
}

// Table is the data handed to the Table component.
type Table struct {
	Columns []string
	Rows    []Row
	// Selectable adds a checkbox per row named "ids".
	Selectable bool
	Empty      string
}

type Row struct {
	ID    string
	Cells []Cell
}

// Cell is a table cell. Href makes it a link, Badge renders the text as a
// status badge with that class.
type Cell struct {
	Text  string
	Href  string
	Badge string
}
